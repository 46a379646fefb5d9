package domain

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var digitRun = regexp.MustCompile(`\d+`)

// FeatureContext carries the folder numbering derived from a spreadsheet's
// filename. BlockIndex advances on every sequence reset.
type FeatureContext struct {
	FeatureNumber string
	Numbers       []string
	BlockIndex    int
}

// NewFeatureContext extracts every maximal digit run from fileName, ignoring
// directories and the extension.
func NewFeatureContext(featureNumber, fileName string) FeatureContext {
	base := filepath.Base(fileName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return FeatureContext{
		FeatureNumber: featureNumber,
		Numbers:       digitRun.FindAllString(base, -1),
	}
}

// RepoNumber returns the HU number for the current block. Once the blocks
// outnumber the filename's numbers the last one keeps being used.
func (fc FeatureContext) RepoNumber() string {
	if len(fc.Numbers) == 0 {
		return ""
	}
	idx := fc.BlockIndex
	if idx >= len(fc.Numbers) {
		idx = len(fc.Numbers) - 1
	}
	return fc.Numbers[idx]
}

// RepositoryFolder returns "Feature-{feature}/HU-{repo}" for the current block.
func (fc FeatureContext) RepositoryFolder() string {
	return fmt.Sprintf("Feature-%s/HU-%s", fc.FeatureNumber, fc.RepoNumber())
}

// NextBlock returns the context for the block following a sequence reset.
func (fc FeatureContext) NextBlock() FeatureContext {
	fc.BlockIndex++
	return fc
}
