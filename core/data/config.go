package data

// Config holds configuration for the persisted dormitory data.
type Config struct {
	// Backend selects the repository: "files" or "database".
	Backend string `mapstructure:"backend" default:"files"`
	// Dir is the directory holding the data files.
	Dir string `mapstructure:"dir" default:"."`
	// SetupFile stores the dormitory name, address and layout.
	SetupFile string `mapstructure:"setup_file" default:"setup.txt"`
	// RoomsFile stores room statuses.
	RoomsFile string `mapstructure:"rooms_file" default:"roomStatus.txt"`
	// DormersFile stores dormer records.
	DormersFile string `mapstructure:"dormers_file" default:"dormers.txt"`
	// PaymentsFile stores monthly payment records.
	PaymentsFile string `mapstructure:"payments_file" default:"paymentStatus.txt"`
}

const (
	BackendFiles    = "files"
	BackendDatabase = "database"
)

// IsValidBackend checks if the configured backend is known.
func (c Config) IsValidBackend() bool {
	switch c.Backend {
	case BackendFiles, BackendDatabase:
		return true
	default:
		return false
	}
}
