package s3

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"

	"juridico/internal/resilience"
)

func TestClassify(t *testing.T) {
	denied := &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied", Fault: smithy.FaultClient}
	err := classify(fmt.Errorf("s3 upload: %w", denied))
	assert.True(t, resilience.IsPermanent(err))
	assert.ErrorIs(t, err, denied)

	unavailable := &smithy.GenericAPIError{Code: "SlowDown", Message: "slow down", Fault: smithy.FaultServer}
	assert.False(t, resilience.IsPermanent(classify(unavailable)))

	assert.False(t, resilience.IsPermanent(classify(errors.New("connection reset"))))
}
