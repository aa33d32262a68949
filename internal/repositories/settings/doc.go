// Package settings is a small key/value table for local preferences such as
// the user profile. Values are opaque bytes; LoadJSON and SaveJSON cover the
// common case of a JSON document under one key.
package settings
