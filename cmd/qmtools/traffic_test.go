package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const groupBold = "bids_name\tsnr\ttsnr\tfber\tefc\tfd_mean\n" +
	"sub-01_task-rest_bold\t10\t40\t1000\t0.5\t0.1\n" +
	"sub-02_task-rest_bold\t20\t50\t1100\t0.6\t0.2\n" +
	"sub-03_task-rest_bold\t30\t60\t1200\t0.7\t0.3\n"

func writeGroupFile(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "group_bold.tsv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunTrafficCmd(t *testing.T) {
	t.Run("writes reports", func(t *testing.T) {
		dir := t.TempDir()
		cfgPath := writeTestConfig(t, dir, "http://localhost/api/v1")
		group := writeGroupFile(t, dir, groupBold)
		reports := filepath.Join(dir, "out")

		stdout, _, err := runCLI(t, "--config", cfgPath, "traffic", "-m", "bold", "-r", reports, group)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "3 images") {
			t.Errorf("expected image count in output, got %q", stdout)
		}

		for _, name := range []string{
			"pos_good_bold.tsv", "pos_good_bold.html",
			"pos_bad_bold.tsv", "pos_bad_bold.html",
			"traffic_bold.md",
		} {
			if _, err := os.Stat(filepath.Join(reports, name)); err != nil {
				t.Errorf("expected %s: %v", name, err)
			}
		}

		html, err := os.ReadFile(filepath.Join(reports, "pos_good_bold.html"))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(html), "sub-02_task-rest_bold") {
			t.Error("expected image names in HTML report")
		}
	})

	t.Run("uses configured reports dir", func(t *testing.T) {
		dir := t.TempDir()
		cfgPath := writeTestConfig(t, dir, "http://localhost/api/v1")
		group := writeGroupFile(t, dir, groupBold)

		if _, _, err := runCLI(t, "--config", cfgPath, "traffic", "-m", "bold", group); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "reports", "pos_bad_bold.tsv")); err != nil {
			t.Errorf("expected report in configured directory: %v", err)
		}
	})

	t.Run("missing input exits with 10", func(t *testing.T) {
		dir := t.TempDir()
		cfgPath := writeTestConfig(t, dir, "http://localhost/api/v1")

		_, _, err := runCLI(t, "--config", cfgPath, "traffic", "-m", "bold", filepath.Join(dir, "missing.tsv"))
		if code := exitCode(err); code != exitInputFile {
			t.Errorf("expected exit code %d, got %d (%v)", exitInputFile, code, err)
		}
	})

	t.Run("file without metric columns exits with 10", func(t *testing.T) {
		dir := t.TempDir()
		cfgPath := writeTestConfig(t, dir, "http://localhost/api/v1")
		group := writeGroupFile(t, dir, "bids_name\tcomment\nsub-01\tok\n")

		_, _, err := runCLI(t, "--config", cfgPath, "traffic", "-m", "bold", group)
		if code := exitCode(err); code != exitInputFile {
			t.Errorf("expected exit code %d, got %d (%v)", exitInputFile, code, err)
		}
	})

	t.Run("reports dir that is a file exits with 22", func(t *testing.T) {
		dir := t.TempDir()
		cfgPath := writeTestConfig(t, dir, "http://localhost/api/v1")
		group := writeGroupFile(t, dir, groupBold)
		blocker := filepath.Join(dir, "blocker")
		if err := os.WriteFile(blocker, nil, 0o600); err != nil {
			t.Fatal(err)
		}

		_, _, err := runCLI(t, "--config", cfgPath, "traffic", "-m", "bold", "-r", blocker, group)
		if code := exitCode(err); code != exitReportsDir {
			t.Errorf("expected exit code %d, got %d (%v)", exitReportsDir, code, err)
		}
	})
}
