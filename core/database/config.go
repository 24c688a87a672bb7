package database

// Config selects the preferences database. Driver is sqlite or mysql; for
// sqlite Name is the file path and the network fields are ignored.
type Config struct {
	Driver   string `mapstructure:"driver" default:"sqlite"`
	Host     string `mapstructure:"host" default:"localhost"`
	Port     int    `mapstructure:"port" default:"3306"`
	User     string `mapstructure:"user" default:"root"`
	Password string `mapstructure:"password" default:""`
	Name     string `mapstructure:"name" default:"tracker-comparer.db"`
	// TimeoutSeconds bounds connection setup and each read or write.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
