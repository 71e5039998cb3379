package route

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPage(t *testing.T) {
	assert.Equal(t, 1, getPage(url.Values{}))
	assert.Equal(t, 3, getPage(url.Values{"page": []string{"3"}}))
	assert.Equal(t, 1, getPage(url.Values{"page": []string{"0"}}))
	assert.Equal(t, 1, getPage(url.Values{"page": []string{"-2"}}))
	assert.Equal(t, 1, getPage(url.Values{"page": []string{"abc"}}))
	assert.Equal(t, 1, getPage(url.Values{"page": []string{""}}))
}

func TestGetLimit(t *testing.T) {
	assert.Equal(t, 10, getLimit(url.Values{}))
	assert.Equal(t, 25, getLimit(url.Values{"limit": []string{"25"}}))
	assert.Equal(t, 10, getLimit(url.Values{"limit": []string{"0"}}))
	assert.Equal(t, 10, getLimit(url.Values{"limit": []string{"-1"}}))
	assert.Equal(t, 10, getLimit(url.Values{"limit": []string{"ten"}}))
}
