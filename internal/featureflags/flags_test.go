package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnabled(t *testing.T) {
	t.Setenv("FLAG_AUDIT_READS", "Yes")
	assert.True(t, Enabled(AuditReads))
	assert.True(t, Enabled("audit_reads"))

	t.Setenv("FLAG_AUDIT_READS", "maybe")
	assert.False(t, Enabled(AuditReads))
}

func TestEnabledOrDefault(t *testing.T) {
	assert.True(t, EnabledOr("UNSET_FOR_TEST", true))

	t.Setenv("FLAG_CHANGE_FEED", "off")
	assert.False(t, EnabledOr(ChangeFeed, true))

	t.Setenv("FLAG_CHANGE_FEED", "")
	assert.True(t, EnabledOr(ChangeFeed, true))
}
