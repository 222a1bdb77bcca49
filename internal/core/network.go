package core

import (
	"context"
	"time"

	"github.com/agenthands/kinship/internal/core/community"
	"github.com/agenthands/kinship/internal/core/insights"
	"github.com/agenthands/kinship/internal/core/metrics"
	"github.com/agenthands/kinship/internal/core/model"
	"github.com/agenthands/kinship/internal/core/summary"
	"github.com/agenthands/kinship/internal/store"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// clusterNamingConcurrency bounds parallel LLM calls in NamedClusters.
const clusterNamingConcurrency = 4

// NamedCluster is a cluster with an optional human-readable label.
type NamedCluster struct {
	model.Cluster
	Name string `json:"name,omitempty"`
}

// Network runs every analyzer over an owner's stored snapshot.
type Network struct {
	Store    store.Store
	Detector community.Detector
	Narrator *summary.Narrator

	HubLimit          int
	IntroductionLimit int

	// Now is the reference clock for recency windows.
	Now func() time.Time

	logger *zap.Logger
}

func NewNetwork(s store.Store, narrator *summary.Narrator, hubLimit, introductionLimit int, logger *zap.Logger) *Network {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Network{
		Store:             s,
		Detector:          community.NewUnionFindDetector(),
		Narrator:          narrator,
		HubLimit:          hubLimit,
		IntroductionLimit: introductionLimit,
		Now:               func() time.Time { return time.Now().UTC() },
		logger:            logger,
	}
}

func (n *Network) now() time.Time {
	if n.Now == nil {
		return time.Now().UTC()
	}
	return n.Now()
}

func (n *Network) detector() community.Detector {
	if n.Detector == nil {
		return community.NewUnionFindDetector()
	}
	return n.Detector
}

// Snapshot loads the owner's data from the store.
func (n *Network) Snapshot(ctx context.Context, ownerID string) (*model.Snapshot, error) {
	return n.Store.Snapshot(ctx, ownerID)
}

// Import replaces the owner's data.
func (n *Network) Import(ctx context.Context, ownerID string, snap *model.Snapshot) error {
	if err := n.Store.Import(ctx, ownerID, snap); err != nil {
		return err
	}
	n.logger.Info("snapshot imported",
		zap.String("owner_id", ownerID),
		zap.Int("contacts", len(snap.Contacts)),
		zap.Int("connections", len(snap.Connections)),
		zap.Int("interactions", len(snap.Interactions)),
		zap.Int("favors", len(snap.Favors)),
	)
	return nil
}

// Analyze computes a full report for snap without touching the store.
func (n *Network) Analyze(snap *model.Snapshot) model.Report {
	return n.AnalyzeAt(snap, n.now())
}

// AnalyzeAt is Analyze with an explicit reference time for recency windows.
func (n *Network) AnalyzeAt(snap *model.Snapshot, asOf time.Time) model.Report {
	if snap == nil {
		snap = &model.Snapshot{}
	}
	contacts, connections := snap.Contacts, snap.Connections
	clusters := n.detector().Detect(contacts, connections)
	risks := insights.ComputeRiskAlertsIn(contacts, connections, snap.Interactions, snap.Favors, clusters, asOf)

	return model.Report{
		GeneratedAt:          asOf,
		Metrics:              metrics.ComputeNetworkMetrics(contacts, connections),
		ConnectionTypes:      metrics.ConnectionTypeBreakdown(connections),
		StrengthDistribution: metrics.StrengthDistribution(connections),
		Hubs:                 insights.FindHubs(contacts, connections, n.HubLimit),
		Clusters:             clusters,
		Isolated:             community.FindIsolatedContacts(contacts, connections),
		Bridges:              insights.FindBridgeContactsIn(contacts, connections, clusters),
		Introductions:        insights.SuggestIntroductions(contacts, connections, n.IntroductionLimit),
		WeakConnections:      insights.FindWeakConnections(contacts, connections, snap.Interactions, asOf),
		RiskAlerts:           risks,
		Reach:                insights.NetworkReachAnalysis(contacts, connections),
		Geography:            insights.GeographicConnectionDensity(contacts, connections),
		Summary:              insights.SummarizeRisks(contacts, connections, snap.Interactions, risks, asOf),
	}
}

func (n *Network) Report(ctx context.Context, ownerID string) (model.Report, error) {
	snap, err := n.Store.Snapshot(ctx, ownerID)
	if err != nil {
		return model.Report{}, err
	}

	start := time.Now()
	report := n.Analyze(snap)
	n.logger.Debug("report computed",
		zap.String("owner_id", ownerID),
		zap.Int("contacts", len(snap.Contacts)),
		zap.Int("clusters", len(report.Clusters)),
		zap.Int("risks", len(report.RiskAlerts)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return report, nil
}

func (n *Network) Summary(ctx context.Context, ownerID string) (model.InsightsSummary, error) {
	snap, err := n.Store.Snapshot(ctx, ownerID)
	if err != nil {
		return model.InsightsSummary{}, err
	}
	return n.AnalyzeAt(snap, n.now()).Summary, nil
}

// Narrative describes the owner's network in prose. If the LLM call fails the
// deterministic top insight is returned alongside the error.
func (n *Network) Narrative(ctx context.Context, ownerID string) (string, error) {
	report, err := n.Report(ctx, ownerID)
	if err != nil {
		return "", err
	}
	return n.NarrateReport(ctx, report)
}

func (n *Network) NarrateReport(ctx context.Context, report model.Report) (string, error) {
	text, err := n.Narrator.Narrate(ctx, report)
	if err != nil {
		n.logger.Warn("narrative generation failed", zap.Error(err))
		return report.Summary.TopInsight, err
	}
	return text, nil
}

// NamedClusters detects the owner's clusters and labels each one. A failed
// label leaves that cluster unnamed; it never fails the call.
func (n *Network) NamedClusters(ctx context.Context, ownerID string) ([]NamedCluster, error) {
	snap, err := n.Store.Snapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	clusters := n.detector().Detect(snap.Contacts, snap.Connections)
	named := make([]NamedCluster, len(clusters))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(clusterNamingConcurrency)
	for i, c := range clusters {
		i, c := i, c
		named[i].Cluster = c
		g.Go(func() error {
			name, err := n.Narrator.NameCluster(gctx, c)
			if err != nil {
				n.logger.Warn("cluster naming failed", zap.String("cluster_id", c.ID), zap.Error(err))
				return nil
			}
			named[i].Name = name
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return named, nil
}
