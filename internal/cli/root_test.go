package cli

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/galacticcic/galacticcic/internal/errors"
)

func TestClassifyMisuseWrapsCobraUnknownCommand(t *testing.T) {
	err := classifyMisuse(stderrors.New(`unknown command "frobnicate" for "galacticcic"`))
	assert.True(t, errors.IsCode(err, errors.ErrMisuse))
	assert.Equal(t, 2, errors.ExitCodeFor(err))
}

func TestClassifyMisuseWrapsCobraUnknownFlag(t *testing.T) {
	err := classifyMisuse(stderrors.New("unknown flag: --frobnicate"))
	assert.True(t, errors.IsCode(err, errors.ErrMisuse))
	assert.Equal(t, 2, errors.ExitCodeFor(err))
}

func TestClassifyMisuseLeavesStructuredErrorsAlone(t *testing.T) {
	original := errors.WrapWithCode(stderrors.New("disk full"), errors.ErrStore, "could not write tick", "")
	err := classifyMisuse(original)
	assert.Same(t, original, err)
	assert.Equal(t, 3, errors.ExitCodeFor(err))
}

func TestClassifyMisuseLeavesUnrelatedErrorsAtDefaultExitCode(t *testing.T) {
	err := classifyMisuse(stderrors.New("something else went wrong"))
	assert.Equal(t, 1, errors.ExitCodeFor(err))
}
