// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the field client process runtime.
//
// It opens the device store once, pushes pending records on start and keeps
// the periodic sync worker running until the process is asked to stop.
package client
