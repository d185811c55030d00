// Package wizard provides an interactive configuration wizard for chartstack.
//
// It uses charmbracelet/huh forms to collect the cluster identity, the
// ingress domain and the add-ons to enable. Use BuildConfig to convert the
// answers to a config.Config and WriteConfig to generate the YAML file.
package wizard
