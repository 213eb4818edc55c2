// Package config loads steelshape runtime configuration and profile
// documents from YAML.
//
// # Runtime configuration
//
// LoadConfig reads a YAML file over DefaultConfig and validates it:
//
//	store:
//	  path: profiles.db
//	actor: alice
//	batch:
//	  concurrency: 4
//	telemetry:
//	  logging:
//	    level: debug
//
// # Profile documents
//
// A profile document lists definitions with their family and parameters.
// Parameters are decoded into the family's parameter set; unknown fields are
// rejected, but values are only checked when the coordinator validates or
// commits the profile.
//
//	profiles:
//	  - id: plate
//	    name: Plate 400x20
//	    family: Rectangle
//	    params: {width: 400, depth: 20}
//	  - id: plate-rot
//	    name: Rotated plate
//	    family: DerivedProfile
//	    params:
//	      base_profile_id: plate
//	      scale_x: 1
//	      scale_y: 1
//	      rotation: 1.5707963267948966
//
// # Watching
//
// Loader reads documents from files or directories, caches them, and can
// watch the paths with fsnotify. Bursts of changes are debounced into one
// reload of the full profile set.
package config
