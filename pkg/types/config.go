// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// CorrectionConfig holds settings for the batch correction stage. An empty
// APIKey disables correction entirely: the document passes through with its
// extracted text unchanged.
type CorrectionConfig struct {
	// APIKey authenticates against the correction service.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Model is the correction model identifier.
	Model string `json:"model" yaml:"model"`

	// BatchSize is the maximum number of runs per service request (default 100).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// Timeout bounds each batch request. A batch whose request exceeds the
	// timeout is treated as failed and keeps its original text.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Whitelist lists tokens the correction service must leave unchanged.
	Whitelist []string `json:"whitelist,omitempty" yaml:"whitelist,omitempty"`

	// CachePath, when set, enables the on-disk correction cache at that path.
	CachePath string `json:"cache_path,omitempty" yaml:"cache_path,omitempty"`
}

// ConvertConfig holds settings for one conversion invocation.
type ConvertConfig struct {
	// InputPath is the source DOCX file.
	InputPath string `json:"input_path" yaml:"input_path"`

	// OutputPath is the LaTeX file to write. Extracted images are written
	// to an images/ directory beside it.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// Correction configures the correction stage.
	Correction CorrectionConfig `json:"correction" yaml:"correction"`
}
