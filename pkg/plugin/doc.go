// Package plugin implements the note export commands and the registry a host
// uses to run them.
//
// Both commands are plain functions over core.Host:
//
//	reg := plugin.New(plugin.WithLogger(logger))
//	err := reg.Invoke(ctx, host, "Single tag")
//
// Invoke is the single place where a failed run is reported: the error text
// is shown once through Host.Alert.
package plugin
