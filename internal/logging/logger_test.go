// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(DEFAULT, true)
	require.NoError(t, err)

	assert.True(t, logger.V(DEFAULT).Enabled())
	assert.False(t, logger.V(DEBUG).Enabled())

	logger, err = NewLogger(TRACE, false)
	require.NoError(t, err)
	assert.True(t, logger.V(DEBUG).Enabled())
}

func TestNewLogger_InvalidVerbosity(t *testing.T) {
	_, err := NewLogger(-1, false)
	assert.Error(t, err)
}

func TestNewTestLogger(t *testing.T) {
	logger := NewTestLogger()
	assert.True(t, logger.V(TRACE).Enabled())
	logger.V(DEBUG).Info("hello", "key", "value")
}
