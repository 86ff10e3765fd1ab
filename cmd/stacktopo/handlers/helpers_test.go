package handlers

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/imamik/stacktopo/internal/config"
	"github.com/imamik/stacktopo/internal/testing/fakecloud"
)

func noEnv(string) (string, bool) { return "", false }

// saveFactories snapshots every factory variable and returns the restore
// function.
func saveFactories() func() {
	origLoadConfig := loadConfig
	origLoadTimeouts := loadTimeouts
	origConnect := connect
	origIsInteractiveTTY := isInteractiveTTY
	origStdout := stdout
	origNewProvisioner := newProvisioner
	origRunProvisionTUI := runProvisionTUI
	origWriteMetricsFile := writeMetricsFile
	origNewExportStore := newExportStore
	origNewConverter := newConverter
	origFileExists := fileExists
	origConfirmOverwrite := confirmOverwrite
	origRunWizard := runWizard
	origWriteConfig := writeConfig

	return func() {
		loadConfig = origLoadConfig
		loadTimeouts = origLoadTimeouts
		connect = origConnect
		isInteractiveTTY = origIsInteractiveTTY
		stdout = origStdout
		newProvisioner = origNewProvisioner
		runProvisionTUI = origRunProvisionTUI
		writeMetricsFile = origWriteMetricsFile
		newExportStore = origNewExportStore
		newConverter = origNewConverter
		fileExists = origFileExists
		confirmOverwrite = origConfirmOverwrite
		runWizard = origRunWizard
		writeConfig = origWriteConfig
	}
}

func saveAndRestoreFactories(t *testing.T) {
	t.Helper()
	t.Cleanup(saveFactories())
}

// isolate keeps the process environment out of configuration loading,
// shortens timeouts and captures stdout.
func isolate() *bytes.Buffer {
	loadConfig = func(opts config.LoadOptions) (*config.Config, error) {
		opts.LookupEnv = noEnv
		return config.Load(opts)
	}
	loadTimeouts = config.TestTimeouts
	isInteractiveTTY = func() bool { return false }
	out := &bytes.Buffer{}
	stdout = out
	return out
}

// cloudOptions points the configuration at cloud and every output file
// into dir.
func cloudOptions(cloud *fakecloud.Cloud, dir string) LoadOptions {
	target := cloud.Config().ControlPlane
	return LoadOptions{
		EnvFiles: []string{},
		Overrides: func(cfg *config.Config) {
			cfg.ControlPlane.Scheme = target.Scheme
			cfg.ControlPlane.Host = target.Host
			cfg.ControlPlane.Port = target.Port
			cfg.Output.KeyFile = filepath.Join(dir, "keypair.pem")
			cfg.Output.ExportFile = filepath.Join(dir, config.DefaultExportFile)
			cfg.Output.TraceFile = filepath.Join(dir, "trace.json")
			cfg.Output.MetricsFile = filepath.Join(dir, "metrics.prom")
		},
	}
}
