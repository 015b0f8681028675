package store

// HealthStore abstracts connectivity checks
type HealthStore interface {
	// CheckConnectivity verifies the datastore is reachable
	CheckConnectivity() error
}
