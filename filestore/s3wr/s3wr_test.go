package s3wr

import (
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"

	"github.com/rise-and-shine/dataresource/filestore"
)

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(&types.NoSuchKey{}))
	assert.True(t, isNotFound(&types.NotFound{}))
	assert.False(t, isNotFound(errors.New("boom")))
}

func TestWrapMapsMissingKey(t *testing.T) {
	c := &Client{bucket: "data"}

	err := c.wrap(&types.NoSuchKey{}, "u1/r1.x.tsv")
	assert.True(t, errx.IsCodeIn(err, filestore.CodeObjectNotFound))

	err = c.wrap(errors.New("connection reset"), "u1/r1.x.tsv")
	assert.False(t, errx.IsCodeIn(err, filestore.CodeObjectNotFound))
}
