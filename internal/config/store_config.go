package config

type StoreConfig interface {
	GetDatabaseURL() string
}

type Store struct{}

var _ StoreConfig = Store{}

// GetDatabaseURL returns the postgres connection string. An empty value
// selects the in-memory store (development only).
func (Store) GetDatabaseURL() string {
	return GetEnv("DATABASE_URL", "")
}
