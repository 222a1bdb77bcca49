package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/agenthands/kinship/internal/core/model"
	"github.com/goccy/go-json"
)

func sampleSnapshot(now time.Time) model.Snapshot {
	return model.Snapshot{
		Contacts: []model.Contact{
			{ID: "alice", Name: "Alice", Company: "Acme", City: "Berlin", Country: "DE", Tags: []string{"founder"}, Rating: model.IntPtr(5)},
			{ID: "bob", Name: "Bob", Company: "Acme", City: "Berlin", Country: "DE", Tags: []string{"engineer"}},
			{ID: "carol", Name: "Carol", Company: "Globex", Country: "FR", Tags: []string{"investor"}},
			{ID: "dave", Name: "Dave", Company: "Globex", Country: "FR", Tags: []string{"investor"}},
			{ID: "erin", Name: "Erin", Country: "US", InfluenceLevel: model.IntPtr(9)},
		},
		Connections: []model.ContactConnection{
			{ID: "alice-bob", SourceContactID: "alice", TargetContactID: "bob", ConnectionType: model.ConnectionWorksWith, Strength: model.IntPtr(5), Bidirectional: true},
			{ID: "alice-carol", SourceContactID: "alice", TargetContactID: "carol", ConnectionType: model.ConnectionInvestedIn, Strength: model.IntPtr(4), Bidirectional: true},
			{ID: "alice-dave", SourceContactID: "alice", TargetContactID: "dave", ConnectionType: model.ConnectionKnows, Strength: model.IntPtr(2)},
		},
		Interactions: []model.Interaction{
			{ID: "i1", ContactID: "alice", Date: now.AddDate(0, 0, -5), Type: "meeting"},
			{ID: "i2", ContactID: "carol", Date: now.AddDate(0, 0, -40), Type: "call"},
		},
		Favors: []model.Favor{
			{ID: "f1", ContactID: "bob", Direction: model.FavorGiven, Date: now.AddDate(0, 0, -10)},
			{ID: "f2", ContactID: "bob", Direction: model.FavorGiven, Date: now.AddDate(0, 0, -20)},
			{ID: "f3", ContactID: "bob", Direction: model.FavorGiven, Date: now.AddDate(0, 0, -30)},
		},
	}
}

func main() {
	baseURL := flag.String("addr", "http://localhost:8080", "Base URL of a running kinship server")
	wait := flag.Duration("wait", 2*time.Second, "Time to wait for the server to start")
	flag.Parse()

	time.Sleep(*wait)
	fmt.Println("Starting smoke test...")

	owner := fmt.Sprintf("smoke-%d", time.Now().Unix())
	base := *baseURL + "/v1/owners/" + owner

	steps := []struct {
		name    string
		method  string
		url     string
		payload interface{}
	}{
		{"Import snapshot", http.MethodPut, base + "/snapshot", sampleSnapshot(time.Now().UTC())},
		{"Summary", http.MethodGet, base + "/summary", nil},
		{"Hubs", http.MethodGet, base + "/hubs?limit=3", nil},
		{"Introductions", http.MethodGet, base + "/introductions", nil},
		{"Risks", http.MethodGet, base + "/risks", nil},
		{"Narrative", http.MethodGet, base + "/narrative", nil},
	}

	for i, step := range steps {
		fmt.Printf("%d. %s...\n", i+1, step.name)
		if !sendRequest(step.method, step.url, step.payload) {
			fmt.Printf("FAILED: %s\n", step.name)
			os.Exit(1)
		}
		fmt.Printf("PASSED: %s\n", step.name)
	}
}

func sendRequest(method, url string, payload interface{}) bool {
	var body io.Reader
	if payload != nil {
		jsonBytes, err := json.Marshal(payload)
		if err != nil {
			fmt.Printf("Error encoding payload: %v\n", err)
			return false
		}
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return false
	}

	fmt.Printf("Response: %s\n", string(respBody))
	return true
}
