package version

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionCmd(t *testing.T) {
	var buf bytes.Buffer
	Cmd.SetOut(&buf)
	Cmd.Run(Cmd, nil)

	assert.Contains(t, buf.String(), Package)
	assert.Contains(t, buf.String(), Version)
}
