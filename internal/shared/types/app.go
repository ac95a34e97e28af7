package types

import "path/filepath"

// Position is the target window placement recorded in a project
type Position struct {
	X      int `json:"x" yaml:"x" toml:"x"`
	Y      int `json:"y" yaml:"y" toml:"y"`
	Width  int `json:"width" yaml:"width" toml:"width"`
	Height int `json:"height" yaml:"height" toml:"height"`
}

// AppKey identifies one application entry of a project.
// Two applications are the same tracked entry iff their keys are equal.
type AppKey struct {
	ID   string `json:"id,omitempty"`
	Path string `json:"path"`
	Args string `json:"args,omitempty"`
}

// Application is one entry of a workspace project.
// Every field is a plain value so copies never alias.
type Application struct {
	ID                string   `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Name              string   `json:"name" yaml:"name" toml:"name"`
	Title             string   `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Path              string   `json:"path" yaml:"path" toml:"path"`
	Args              string   `json:"args,omitempty" yaml:"args,omitempty" toml:"args,omitempty"`
	PackageFullName   string   `json:"package_full_name,omitempty" yaml:"package_full_name,omitempty" toml:"package_full_name,omitempty"`
	AppUserModelID    string   `json:"app_user_model_id,omitempty" yaml:"app_user_model_id,omitempty" toml:"app_user_model_id,omitempty"`
	IsElevated        bool     `json:"is_elevated,omitempty" yaml:"is_elevated,omitempty" toml:"is_elevated,omitempty"`
	CanLaunchElevated bool     `json:"can_launch_elevated,omitempty" yaml:"can_launch_elevated,omitempty" toml:"can_launch_elevated,omitempty"`
	Minimized         bool     `json:"minimized,omitempty" yaml:"minimized,omitempty" toml:"minimized,omitempty"`
	Maximized         bool     `json:"maximized,omitempty" yaml:"maximized,omitempty" toml:"maximized,omitempty"`
	Monitor           int      `json:"monitor" yaml:"monitor" toml:"monitor"`
	Position          Position `json:"position" yaml:"position" toml:"position"`
}

// Key returns the identity of the application
func (a Application) Key() AppKey {
	return AppKey{ID: a.ID, Path: a.Path, Args: a.Args}
}

// Target returns the launch target used to detect duplicate launches
func (a Application) Target() string {
	return filepath.Clean(a.Path)
}

// DisplayName returns a human readable name for logs and UI
func (a Application) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return filepath.Base(a.Path)
}
