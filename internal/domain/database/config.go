package database

import "fmt"

// Sentinel marks a credential that has not been configured.
const Sentinel = "CHANGEME"

// Config is the database name, user and password used by the server.
type Config struct {
	// Name is the database (schema) name.
	Name string `yaml:"name"`
	// User is the account the server connects as.
	User string `yaml:"user"`
	// Password is the password of User.
	Password string `yaml:"password"`
}

// Unset returns the sentinel triple.
func Unset() Config {
	return Config{
		Name:     Sentinel,
		User:     Sentinel,
		Password: Sentinel,
	}
}

// IsUnset reports whether any field still holds the sentinel.
func (c Config) IsUnset() bool {
	return c.Name == Sentinel || c.User == Sentinel || c.Password == Sentinel
}

// IsEmpty reports whether no field was provided at all.
func (c Config) IsEmpty() bool {
	return c.Name == "" && c.User == "" && c.Password == ""
}

// IsPartial reports whether only some fields hold real values.
func (c Config) IsPartial() bool {
	if c.IsEmpty() {
		return false
	}

	fields := []string{c.Name, c.User, c.Password}

	var real int

	for _, f := range fields {
		if f != "" && f != Sentinel {
			real++
		}
	}

	return real > 0 && real < len(fields)
}

// ConnectionString renders the server.cfg line for oxmysql-style resources.
// The line is commented out while the credentials are unset.
func (c Config) ConnectionString() string {
	line := fmt.Sprintf(
		`set mysql_connection_string "host=localhost;user=%s;database=%s;password=%s;charset=utf8mb4"`,
		c.User, c.Name, c.Password,
	)

	if c.IsUnset() {
		return "# " + line
	}

	return line
}
