package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderFooterShowsDegradedWarningOnlyWhenDegraded(t *testing.T) {
	m := Model{theme: ThemeByName("phosphor")}

	ok := m.renderFooter()
	assert.NotContains(t, ok, "degraded")

	m.degraded = true
	warn := m.renderFooter()
	assert.Contains(t, warn, "degraded: daemon writes failing")
}
