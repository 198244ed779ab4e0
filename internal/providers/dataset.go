package providers

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"propertydash/server/internal/models"
)

// Dataset is the offline listing snapshot backing the static keyword search.
// It is loaded once at process start and never mutated afterwards, so reads
// need no locking beyond the load guard.
type Dataset struct {
	logger *logrus.Logger
	mu     sync.RWMutex
	items  []models.PropertyRecord
}

type datasetFile struct {
	Properties []models.PropertyRecord `json:"properties"`
}

func NewDataset(logger *logrus.Logger) *Dataset {
	return &Dataset{logger: logger}
}

// Load reads the snapshot file. A missing file is not fatal; the search
// endpoint then answers with zero results.
func (d *Dataset) Load(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("failed to read dataset file: %w", err)
	}

	var file datasetFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse dataset file: %w", err)
	}

	d.mu.Lock()
	d.items = file.Properties
	d.mu.Unlock()

	d.logger.WithField("count", len(file.Properties)).Info("Loaded offline dataset")
	return nil
}

// Search returns every listing whose address or title contains all query
// terms, case-insensitively.
func (d *Dataset) Search(address string) []models.PropertyRecord {
	terms := strings.Fields(strings.ToLower(address))

	d.mu.RLock()
	defer d.mu.RUnlock()

	matched := make([]models.PropertyRecord, 0)
	for _, item := range d.items {
		haystackAddr := strings.ToLower(item.Address)
		haystackTitle := strings.ToLower(item.Title)
		if matchesAllTerms(haystackAddr, haystackTitle, terms) {
			matched = append(matched, item)
		}
	}
	return matched
}

func matchesAllTerms(address, title string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(address, term) && !strings.Contains(title, term) {
			return false
		}
	}
	return true
}

// Len reports the number of loaded listings.
func (d *Dataset) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.items)
}
