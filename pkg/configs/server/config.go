package server

// ServerConfig is the daemon configuration, loaded from a YAML file.
type ServerConfig struct {
	// connection string of the catalog database.
	DBURI string `yaml:"dburi"`

	// port the HTTP API listens on.
	ServerPort string `yaml:"port"`

	// interval between rating recompute sweeps, in time.ParseDuration
	// format. Empty means the default (15m).
	RatingRecomputeInterval string `yaml:"ratingRecomputeInterval"`

	// endpoint of the Teams provisioning service. When empty, approved
	// communities are left without a team until one is configured.
	ProvisionerURL string `yaml:"provisionerURL"`
}
