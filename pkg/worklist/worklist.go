// Package worklist reads and writes the ordered URL lists that drive a pass.
package worklist

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Load reads a newline-separated URL list from path. Blank lines and
// lines starting with '#' are skipped; order is otherwise preserved.
func Load(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open work list: %w", err)
	}
	defer file.Close()

	var urls []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read work list: %w", err)
	}

	return urls, nil
}

// Write persists a URL list to path atomically (tmp file then rename),
// one URL per line in the given order.
func Write(path string, urls []string) error {
	tempPath := path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary work list: %w", err)
	}

	w := bufio.NewWriter(file)
	for _, u := range urls {
		if _, err := fmt.Fprintln(w, u); err != nil {
			file.Close()
			os.Remove(tempPath)
			return fmt.Errorf("failed to write work list: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to flush work list: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close work list: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace work list: %w", err)
	}

	return nil
}
