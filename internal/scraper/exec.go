package scraper

import (
	"bytes"
	"os/exec"
)

func runBridge(cmdName, dir string, args []string) ([]byte, []byte, error) {
	cmd := exec.Command(cmdName, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
