// Package config provides configuration loading, merging, and validation
// for the climate keeper client and backup receiver.
//
// Configuration is assembled from several sources. For every field the first
// source holding a non-zero value wins:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//  4. Built-in defaults
//
// The entry points are [GetClientConfig] for the field client and
// [GetServerConfig] for the backup receiver.
package config
