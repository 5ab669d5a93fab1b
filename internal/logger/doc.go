// Package logger wraps zap for the installer:
//   - a global sugared logger writing a console encoding to stdout,
//   - an optional rotating file sink for the installation log,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and the usual Info/Warn/Error helpers.
//
// Every step of the installer receives a context and logs through it, so the
// step name travels with each record.
package logger
