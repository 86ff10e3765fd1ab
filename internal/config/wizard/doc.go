// Package wizard provides the interactive configuration wizard behind
// stacktopo init.
//
// RunWizard collects answers with charmbracelet/huh forms and returns a
// WizardResult. BuildConfig turns the answers into a config.Config and
// WriteConfig renders it as a commented YAML file.
package wizard
