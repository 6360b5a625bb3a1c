// Package taskfile reads and writes the persisted task collection.
//
// The whole collection is stored as one document. In JSON form:
//
//	{
//	  "schema_version": 1,
//	  "tasks": [
//	    {
//	      "name": "Report",
//	      "description": "Finish Q1 report",
//	      "priority": 3,
//	      "deadline": "2025-04-15",
//	      "completed": false
//	    }
//	  ]
//	}
//
// YAML and TOML carry the same keys. The format comes from Options.Format
// or, when unset, from the file extension; anything that is not .yaml,
// .yml or .toml is JSON, including the default tasks.dat.
//
// # Validation
//
// With Options.Validate set, Load checks the file against a JSON Schema
// (draft 2020-12). The built-in schema is embedded; Options.SchemaPath
// replaces it. Violations come back as ValidationErrors with dotted paths
// such as tasks[0].priority.
//
// # Locking
//
// Load and Save hold a non-blocking exclusive lock on <path>.lock while
// they touch the file. A lock held elsewhere yields ErrLocked.
package taskfile
