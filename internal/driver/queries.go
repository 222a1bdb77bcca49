package driver

var neo4jIndexQueries = []string{
	"CREATE INDEX contact_owner IF NOT EXISTS FOR (n:Contact) ON (n.owner_id)",
	"CREATE INDEX contact_owner_id IF NOT EXISTS FOR (n:Contact) ON (n.owner_id, n.id)",
	"CREATE INDEX interaction_owner IF NOT EXISTS FOR (n:Interaction) ON (n.owner_id)",
	"CREATE INDEX favor_owner IF NOT EXISTS FOR (n:Favor) ON (n.owner_id)",
}

var memgraphIndexQueries = []string{
	"CREATE INDEX ON :Contact(owner_id);",
	"CREATE INDEX ON :Contact(id);",
	"CREATE INDEX ON :Interaction(owner_id);",
	"CREATE INDEX ON :Favor(owner_id);",
}

// Snapshot persistence. Every node carries owner_id and a position so a
// snapshot reads back in the order it was written.
const (
	DeleteOwnerQuery = `
		MATCH (n)
		WHERE (n:Contact OR n:Interaction OR n:Favor) AND n.owner_id = $owner_id
		DETACH DELETE n
	`

	SaveContactsQuery = `
		UNWIND $contacts AS c
		CREATE (n:Contact {owner_id: $owner_id, id: c.id})
		SET n.position = c.position,
			n.name = c.name,
			n.company = c.company,
			n.city = c.city,
			n.country = c.country,
			n.tags = c.tags,
			n.personal_interests = c.personal_interests,
			n.professional_goals = c.professional_goals,
			n.relationship_type = c.relationship_type,
			n.rating = c.rating,
			n.influence_level = c.influence_level
	`

	SaveConnectionsQuery = `
		UNWIND $connections AS e
		MATCH (s:Contact {owner_id: $owner_id, id: e.source_contact_id})
		MATCH (t:Contact {owner_id: $owner_id, id: e.target_contact_id})
		CREATE (s)-[r:CONNECTED {id: e.id}]->(t)
		SET r.position = e.position,
			r.connection_type = e.connection_type,
			r.strength = e.strength,
			r.bidirectional = e.bidirectional
	`

	SaveInteractionsQuery = `
		UNWIND $interactions AS i
		CREATE (n:Interaction {owner_id: $owner_id, id: i.id})
		SET n.position = i.position,
			n.contact_id = i.contact_id,
			n.date = i.date,
			n.type = i.type
	`

	SaveFavorsQuery = `
		UNWIND $favors AS f
		CREATE (n:Favor {owner_id: $owner_id, id: f.id})
		SET n.position = f.position,
			n.contact_id = f.contact_id,
			n.direction = f.direction,
			n.date = f.date
	`

	GetContactsQuery = `
		MATCH (n:Contact {owner_id: $owner_id})
		RETURN n.id AS id, n.name AS name, n.company AS company, n.city AS city,
			n.country AS country, n.tags AS tags, n.personal_interests AS personal_interests,
			n.professional_goals AS professional_goals, n.relationship_type AS relationship_type,
			n.rating AS rating, n.influence_level AS influence_level
		ORDER BY n.position
	`

	GetConnectionsQuery = `
		MATCH (s:Contact {owner_id: $owner_id})-[r:CONNECTED]->(t:Contact {owner_id: $owner_id})
		RETURN r.id AS id, s.id AS source_contact_id, t.id AS target_contact_id,
			r.connection_type AS connection_type, r.strength AS strength, r.bidirectional AS bidirectional
		ORDER BY r.position
	`

	GetInteractionsQuery = `
		MATCH (n:Interaction {owner_id: $owner_id})
		RETURN n.id AS id, n.contact_id AS contact_id, n.date AS date, n.type AS type
		ORDER BY n.position
	`

	GetFavorsQuery = `
		MATCH (n:Favor {owner_id: $owner_id})
		RETURN n.id AS id, n.contact_id AS contact_id, n.direction AS direction, n.date AS date
		ORDER BY n.position
	`

	GetOwnersQuery = `
		MATCH (n:Contact)
		RETURN DISTINCT n.owner_id AS owner_id
		ORDER BY owner_id
	`
)
