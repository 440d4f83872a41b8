/*
Package adapter discovers adapter folders and turns their manifests into live HUD components.

An adapter is a directory under the adapters root holding one manifest file (manifest.json, manifest.yaml or
manifest.yml). The folder name is the adapter id and prefixes every component id it spawns, so "BloodCraft" with an
element "xp" of type progressBar becomes "BloodCraft.progressBar.xp". Discovery looks at immediate subdirectories only; a
folder without a manifest, or with one that fails to parse, is skipped with a [Warning] and never stops the others.

Loading is per element. An element whose type is unknown or whose factory fails is logged and skipped while the rest of
the adapter still loads. Duplicate component ids are dropped at registration.

# Usage

	reg, warnings := adapter.Discover("adapters", logger)
	for _, w := range warnings {
	        logger.Warn("adapter skipped", "error", w)
	}
	spawned := reg.LoadAll(types, orch)
	orch.InitializeComponents()

# API Safety

[Registry] and [Adapter] are not safe for concurrent use. They are driven from the single goroutine that ticks the HUD.
*/
package adapter
