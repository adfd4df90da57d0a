package connection

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// KeyConnectionString names the descriptor field holding the driver-level connection string.
const KeyConnectionString = "connectionString"

// DefaultEnvVar is the environment variable read by FromEnv when no name is given.
const DefaultEnvVar = "CUSTOMER_LOOKUP_CONNECTION_STRING"

var (
	// ErrMissingConnectionString is returned when a descriptor has no usable connectionString field.
	ErrMissingConnectionString = errors.New("connection descriptor has no connectionString")

	// ErrLoad wraps failures while reading a descriptor from disk.
	ErrLoad = errors.New("failed to load connection descriptor")
)

// Descriptor is an opaque source of connection settings.
type Descriptor interface {
	// Get returns the value stored under key and whether it was present.
	Get(key string) (string, bool)
}

// Custom is a descriptor split into plain configs and secrets. Secrets shadow
// configs that share the same key.
type Custom struct {
	// Name identifies the connection, e.g. "customer-db".
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Configs holds non-sensitive values.
	Configs map[string]string `json:"configs,omitempty" yaml:"configs,omitempty"`

	// Secrets holds credentials, typically including the connection string.
	Secrets map[string]string `json:"secrets,omitempty" yaml:"secrets,omitempty"`
}

// Ensure Custom satisfies the Descriptor interface at compile time.
var _ Descriptor = Custom{}

// Get implements Descriptor.
func (c Custom) Get(key string) (string, bool) {
	if v, ok := c.Secrets[key]; ok {
		return v, true
	}
	v, ok := c.Configs[key]
	return v, ok
}

// String builds a descriptor holding only a connection string.
func String(connectionString string) Custom {
	return Custom{Secrets: map[string]string{KeyConnectionString: connectionString}}
}

// ConnectionString reads the connectionString field from d.
func ConnectionString(d Descriptor) (string, error) {
	if d == nil {
		return "", ErrMissingConnectionString
	}
	v, ok := d.Get(KeyConnectionString)
	if !ok || strings.TrimSpace(v) == "" {
		return "", ErrMissingConnectionString
	}
	return v, nil
}

// HasConnectionString reports whether d carries a connectionString field,
// even a blank one.
func HasConnectionString(d Descriptor) bool {
	if d == nil {
		return false
	}
	_, ok := d.Get(KeyConnectionString)
	return ok
}

// FromEnv builds a descriptor from an environment variable. DefaultEnvVar is
// used when name is empty.
func FromEnv(name string) (Custom, error) {
	if name == "" {
		name = DefaultEnvVar
	}
	v := os.Getenv(name)
	if strings.TrimSpace(v) == "" {
		return Custom{}, fmt.Errorf("%w: %s is not set", ErrMissingConnectionString, name)
	}
	c := String(v)
	c.Name = name
	return c, nil
}

// FromFile reads a YAML connection file.
//
//	name: customer-db
//	configs:
//	  database: AdventureWorksLT
//	secrets:
//	  connectionString: "Driver={ODBC Driver 18 for SQL Server};Server=..."
func FromFile(path string) (Custom, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Custom{}, errors.Join(ErrLoad, err)
	}
	return Parse(b)
}

// Parse decodes a YAML (or JSON) connection document and checks that it
// carries a connection string.
func Parse(b []byte) (Custom, error) {
	var c Custom
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Custom{}, errors.Join(ErrLoad, err)
	}
	if _, err := ConnectionString(c); err != nil {
		return Custom{}, err
	}
	return c, nil
}
