// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for rigrun-md.
//
// # Key Types
//
//   - Config: main configuration structure
//   - RenderConfig: document assembly (base URL, sections, image policy)
//   - CodeConfig: chroma styles per code region
//   - ImagesConfig, LogConfig, WatchConfig: probing, logging, file watching
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (RIGRUN_MD_*, NEXT_BASE_URL)
//   - ~/.rigrun/md.toml
//   - ~/.rigrun/md.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pipeline := document.New(cfg.ToOptions())
package config
