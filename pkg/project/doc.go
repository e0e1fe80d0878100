// Package project loads and validates the .langpack.yaml project file.
//
// A project file describes where catalogs and source entries live and how
// builds are named. Every field is optional; Default fills omissions so an
// empty file is a working configuration:
//
//	source: en
//	catalogs: languages/*.json
//	entries:
//	  - src/*.js
//	output: dist
//	filename: "[name].[language][ext]"
//
// Fields accepting lists also accept a single string (catalogs above).
// Optional sections configure the TMS pull, machine translation, publishing
// and the preview server; their secrets normally arrive through LANGPACK_*
// environment variables applied by ApplyEnv, which win over file values.
package project
