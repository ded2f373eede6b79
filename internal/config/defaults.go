package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Vectors.Format == "" {
		cfg.Vectors.Format = "auto"
	}
	if cfg.Vectors.StorePath == "" {
		cfg.Vectors.StorePath = "/usr/local/var/kotoba/data/vocab.db"
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 10
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 100
	}
	if cfg.Suggest.MaxDistance == 0 {
		cfg.Suggest.MaxDistance = 2
	}
	if cfg.Suggest.MaxSuggestions == 0 {
		cfg.Suggest.MaxSuggestions = 3
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "text"
	}
}
