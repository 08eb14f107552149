package dotenv

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Load applies KEY=value pairs from the given files to the process
// environment. With no arguments it reads ".env". Missing files are
// skipped silently; variables that are already set always win over
// file values.
func Load(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	var errs []error
	for _, path := range paths {
		if err := loadFile(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			errs = append(errs, fmt.Errorf("dotenv: %w", err))
		}
	}

	return errors.Join(errs...)
}

func loadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if err := applyLine(strings.TrimSpace(scanner.Text())); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	return nil
}

func applyLine(line string) error {
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

	key, value, found := strings.Cut(line, "=")
	if !found {
		return nil
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}

	value = unquote(strings.TrimSpace(value))

	if _, exists := os.LookupEnv(key); exists {
		return nil
	}
	if err := os.Setenv(key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	return nil
}

func unquote(value string) string {
	if len(value) < 2 {
		return value
	}
	if (value[0] == '\'' && value[len(value)-1] == '\'') || (value[0] == '"' && value[len(value)-1] == '"') {
		return value[1 : len(value)-1]
	}
	return value
}
