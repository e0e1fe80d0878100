package project_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/langpack/pkg/project"
)

func TestRenderFilename(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"default", "[name].[language][ext]", "app.fi.js"},
		{"hash", "[name].[language].[contenthash][ext]", "app.fi.0a1b2c3d.js"},
		{"nested dir style", "i18n/[language]/[name][ext]", "i18n/fi/app.js"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := project.RenderFilename(tt.template, "app", "fi", ".js", "0a1b2c3d")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateFilename(t *testing.T) {
	assert.NoError(t, project.ValidateFilename("[name].[language][ext]"))
	assert.NoError(t, project.ValidateFilename("[name]-[language]-[contenthash][ext]"))

	assert.ErrorIs(t, project.ValidateFilename(""), project.ErrInvalidConfig)
	assert.ErrorIs(t, project.ValidateFilename("[name].[locale][ext]"), project.ErrInvalidConfig)
	assert.ErrorIs(t, project.ValidateFilename("[language].js"), project.ErrInvalidConfig)
	assert.ErrorIs(t, project.ValidateFilename("[name].js"), project.ErrInvalidConfig)
}
