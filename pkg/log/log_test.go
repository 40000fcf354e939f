// Copyright 2019 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func testConfig(format string) *Config {
	return &Config{
		Level:             "debug",
		Format:            format,
		DisableCaller:     true,
		DisableStacktrace: true,
	}
}

func TestTextEncoderOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	lg, props, err := InitLoggerWithWriteSyncer(testConfig("text"), zapcore.AddSync(buf))
	assert.NoError(t, err)
	assert.NotNil(t, props)

	lg.Info("packet built", zap.String("packet", "command"), zap.Int("size", 9))

	out := buf.String()
	assert.Contains(t, out, "packet built")
	assert.Contains(t, out, "command")
	assert.Contains(t, out, "INFO")
}

func TestJSONEncoderOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	lg, _, err := InitLoggerWithWriteSyncer(testConfig("json"), zapcore.AddSync(buf))
	assert.NoError(t, err)

	lg.Warn("queue full", zap.Uint64("emitter", 7))

	out := buf.String()
	assert.Contains(t, out, `"message":"queue full"`)
	assert.Contains(t, out, `"emitter":7`)
}

func TestCoreWithCarriesFields(t *testing.T) {
	buf := &bytes.Buffer{}
	lg, _, err := InitLoggerWithWriteSyncer(testConfig("text"), zapcore.AddSync(buf))
	assert.NoError(t, err)

	// With 附加的字段必须出现在后续所有日志行里。
	child := lg.With(zap.String("component", "emitter"))
	child.Info("first line")
	child.Info("second line")

	out := buf.String()
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("component")))
	assert.Contains(t, out, "first line")
	assert.Contains(t, out, "second line")
}

func TestInitTestLogger(t *testing.T) {
	lg, props, err := InitTestLogger(t, testConfig("text"))
	assert.NoError(t, err)
	assert.NotNil(t, props)

	lg.Debug("test sink line", zap.Uint64("emitter", 1))
}
