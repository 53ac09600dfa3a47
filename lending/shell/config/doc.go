// Package config loads the librarian configuration and builds the infrastructure it describes:
// the database connection and store engine, the audit logger, and the OpenTelemetry providers.
//
// Configuration is read with viper from a YAML file (default ~/.config/librarian/config.yml),
// overridable per key through LIBRARIAN_* environment variables, e.g. LIBRARIAN_DATABASE_DSN.
package config
