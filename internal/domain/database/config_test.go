package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestConnectionString_Sentinel comments out the line for unset credentials.
func TestConnectionString_Sentinel(t *testing.T) {
	t.Parallel()

	line := Unset().ConnectionString()
	require.True(t, strings.HasPrefix(line, "#"))
	require.Contains(t, line, "set mysql_connection_string")

	// A single sentinel field is enough to keep the line commented.
	line = Config{Name: "mydb", User: Sentinel, Password: "pw1"}.ConnectionString()
	require.True(t, strings.HasPrefix(line, "#"))
}

// TestConnectionString_Concrete renders an active line for real credentials.
func TestConnectionString_Concrete(t *testing.T) {
	t.Parallel()

	line := Config{Name: "mydb", User: "user1", Password: "pw1"}.ConnectionString()
	require.True(t, strings.HasPrefix(line, "set mysql_connection_string"))
	require.Contains(t, line, "host=localhost;user=user1;database=mydb;password=pw1;charset=utf8mb4")
}

// TestIsPartial flags triples mixing real and missing values.
func TestIsPartial(t *testing.T) {
	t.Parallel()

	require.False(t, Config{}.IsPartial())
	require.False(t, Unset().IsPartial())
	require.False(t, Config{Name: "a", User: "b", Password: "c"}.IsPartial())
	require.True(t, Config{Name: "a"}.IsPartial())
	require.True(t, Config{Name: "a", User: "b", Password: Sentinel}.IsPartial())
}
