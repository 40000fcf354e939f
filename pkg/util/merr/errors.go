// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package merr

import (
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

const (
	CanceledCode int32 = 10000
	TimeoutCode  int32 = 10001
)

type ErrorType int32

const (
	SystemError ErrorType = 0
	InputError  ErrorType = 1
)

var ErrorTypeName = map[ErrorType]string{
	SystemError: "system_error",
	InputError:  "input_error",
}

func (err ErrorType) String() string {
	return ErrorTypeName[err]
}

// Define leaf errors here,
// WARN: take care to add new error,
// check whether you can use the errors below before adding a new one.
// Name: Err + related prefix + error name
var (
	// Address related
	ErrAddressInvalid = newPacketError("invalid hardware address", 100, false)

	// Builder related
	ErrFragmentSizeInvalid = newPacketError("invalid fragment size", 200, false)
	ErrPayloadTooLarge     = newPacketError("payload too large", 201, false)
	ErrFieldCountExceeded  = newPacketError("too many nested fields", 202, false)

	// Emitter related
	ErrEmitterClosed    = newPacketError("emitter closed", 300, false)
	ErrEmitterQueueFull = newPacketError("emitter send queue full", 301, true)
	ErrEmitterDuplicate = newPacketError("emitter already registered", 302, false)
	ErrEmitterNotFound  = newPacketError("emitter not found", 303, false)

	// Connection related
	ErrConnDialFailed = newPacketError("dial failed", 400, true)

	// IO related
	ErrIoFailed = newPacketError("IO failed", 1001, false)

	// Parameter related
	ErrParameterInvalid = newPacketError("invalid parameter", 1100, false)
	ErrParameterMissing = newPacketError("missing parameter", 1101, false)

	// Do NOT export this,
	// never allow programmer using this, keep only for converting unknown error to packetError
	errUnexpected = newPacketError("unexpected error", (1<<16)-1, false)
)

type errorOption func(*packetError)

func WithDetail(detail string) errorOption {
	return func(err *packetError) {
		err.detail = detail
	}
}

func WithErrorType(etype ErrorType) errorOption {
	return func(err *packetError) {
		err.errType = etype
	}
}

type packetError struct {
	msg       string
	detail    string
	retriable bool
	errCode   int32
	errType   ErrorType
}

func newPacketError(msg string, code int32, retriable bool, options ...errorOption) packetError {
	err := packetError{
		msg:       msg,
		detail:    msg,
		retriable: retriable,
		errCode:   code,
	}

	for _, option := range options {
		option(&err)
	}
	return err
}

func (e packetError) code() int32 {
	return e.errCode
}

func (e packetError) Error() string {
	return e.msg
}

func (e packetError) Detail() string {
	return e.detail
}

func (e packetError) Is(err error) bool {
	cause := errors.Cause(err)
	if cause, ok := cause.(packetError); ok {
		return e.errCode == cause.errCode
	}
	return false
}

type multiErrors struct {
	errs []error
}

func (e multiErrors) Unwrap() error {
	if len(e.errs) <= 1 {
		return nil
	}
	// To make merr work for multi errors,
	// we need cause of multi errors, which defined as the last error
	if len(e.errs) == 2 {
		return e.errs[1]
	}

	return multiErrors{
		errs: e.errs[1:],
	}
}

func (e multiErrors) Error() string {
	final := e.errs[0]
	for i := 1; i < len(e.errs); i++ {
		final = errors.Wrap(e.errs[i], final.Error())
	}
	return final.Error()
}

func (e multiErrors) Is(err error) bool {
	for _, item := range e.errs {
		if errors.Is(item, err) {
			return true
		}
	}
	return false
}

func Combine(errs ...error) error {
	errs = lo.Filter(errs, func(err error, _ int) bool { return err != nil })
	if len(errs) == 0 {
		return nil
	}
	return multiErrors{
		errs,
	}
}
