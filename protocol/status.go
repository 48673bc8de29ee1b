// Copyright (C) 2025 obsws-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package protocol

// StatusCode is the integer result code inside a RequestStatus.
// 100 is the only success value.
type StatusCode int

const (
	StatusUnknown StatusCode = 0

	StatusNoError StatusCode = 10

	StatusSuccess StatusCode = 100

	// Request shape problems.
	StatusMissingRequestType  StatusCode = 203
	StatusUnknownRequestType  StatusCode = 204
	StatusGenericError        StatusCode = 205
	StatusUnsupportedRequestBatchExecutionType StatusCode = 206
	StatusNotReady            StatusCode = 207

	// Request field problems.
	StatusMissingRequestField    StatusCode = 300
	StatusMissingRequestData     StatusCode = 301
	StatusInvalidRequestField    StatusCode = 400
	StatusInvalidRequestFieldType StatusCode = 401
	StatusRequestFieldOutOfRange StatusCode = 402
	StatusRequestFieldEmpty      StatusCode = 403
	StatusTooManyRequestFields   StatusCode = 404

	// Output/state problems.
	StatusOutputRunning      StatusCode = 500
	StatusOutputNotRunning   StatusCode = 501
	StatusOutputPaused       StatusCode = 502
	StatusOutputNotPaused    StatusCode = 503
	StatusOutputDisabled     StatusCode = 504
	StatusStudioModeActive   StatusCode = 505
	StatusStudioModeNotActive StatusCode = 506

	// Resource problems.
	StatusResourceNotFound      StatusCode = 600
	StatusResourceAlreadyExists StatusCode = 601
	StatusInvalidResourceType   StatusCode = 602
	StatusNotEnoughResources    StatusCode = 603
	StatusInvalidResourceState  StatusCode = 604
	StatusInvalidInputKind      StatusCode = 605
	StatusResourceNotConfigurable StatusCode = 606
	StatusInvalidFilterKind     StatusCode = 607

	// Processing problems.
	StatusResourceCreationFailed StatusCode = 700
	StatusResourceActionFailed   StatusCode = 701
	StatusRequestProcessingFailed StatusCode = 702
	StatusCannotAct              StatusCode = 703
)

// RequestStatus is the status block of a RequestResponse.
type RequestStatus struct {
	Result  bool       `json:"result"`
	Code    StatusCode `json:"code"`
	Comment string     `json:"comment,omitempty"`
}

// OK reports whether the request succeeded. The server sets both the
// result flag and code 100 together; either alone is treated as failure.
func (s RequestStatus) OK() bool {
	return s.Result && s.Code == StatusSuccess
}
