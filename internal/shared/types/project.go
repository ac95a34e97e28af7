package types

import "time"

// Project is a saved workspace: the applications to restore and where
type Project struct {
	ID        string        `json:"id" yaml:"id" toml:"id"`
	Name      string        `json:"name" yaml:"name" toml:"name"`
	CreatedAt time.Time     `json:"created_at,omitempty" yaml:"created_at,omitempty" toml:"created_at,omitempty"`
	Apps      []Application `json:"apps" yaml:"apps" toml:"apps"`
}
