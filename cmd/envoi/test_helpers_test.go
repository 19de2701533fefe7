package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"envoi/internal/awsclient"
	"envoi/internal/config"
	"envoi/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	sfn        *testsupport.StepFunctions
	translate  *testsupport.Translate
	s3         *testsupport.S3
	control    *testsupport.S3Control
	sts        *testsupport.STS
	terminal   bool
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	for _, key := range []string{
		"AWS_REGION", "AWS_PROFILE", "AWS_ACCOUNT_ID", "ENVOI_STATE_MACHINE_ARN",
		"BUCKET_NAME", "PREFIX", "TARGET_BUCKET_NAME", "TARGET_STORAGE_CLASS",
		"MANIFEST_NAME", "MANIFEST_BUCKET_NAME", "ROLE_ARN", "PRIORITY",
		"REPORT_BUCKET_NAME", "REPORT_PREFIX", "ENVOI_LOG_FILE",
	} {
		t.Setenv(key, "")
	}

	cfg := testsupport.NewConfig(t, opts...)
	home := filepath.Join(testsupport.BaseDir(cfg), "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)

	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		sfn:        testsupport.NewStepFunctions(),
		translate:  &testsupport.Translate{},
		s3:         testsupport.NewS3(),
		control:    &testsupport.S3Control{},
		sts:        &testsupport.STS{Account: "210987654321"},
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func (e *cliTestEnv) clients() *awsclient.Clients {
	return &awsclient.Clients{
		StepFunctions: e.sfn,
		Translate:     e.translate,
		S3:            e.s3,
		Uploader:      e.s3,
		S3Control:     e.control,
		STS:           e.sts,
	}
}

func (e *cliTestEnv) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := buildRootCommand(rootOptions{
		newClients: func(context.Context, *config.Config) (*awsclient.Clients, error) {
			return e.clients(), nil
		},
		stdinIsTerminal: func() bool { return e.terminal },
	})
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
