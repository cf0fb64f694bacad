package minecraft

// Merge merges a loader manifest (overlay) into its vanilla base manifest.
// The result is self contained: `inheritsFrom` is removed and the id is set to installName.
//
// Libraries of the overlay shadow base libraries with the same `group:artifact` key,
// regardless of their version. Arguments are concatenated (base first).
func Merge(base *LaunchManifest, overlay *LaunchManifest, installName string) *LaunchManifest {
	b := base.Clone()
	merged := overlay.Clone()

	merged.ID = installName
	merged.Type = TypeRelease
	merged.InheritsFrom = ""

	if merged.MainClass == "" {
		merged.MainClass = b.MainClass
	}

	// loader manifests rarely define their own assets
	merged.Assets = b.Assets
	merged.AssetIndex = b.AssetIndex

	if b.Downloads != nil {
		merged.Downloads = b.Downloads
	}
	if merged.JavaVersion == nil {
		merged.JavaVersion = b.JavaVersion
	}
	if merged.MinecraftArguments == "" {
		merged.MinecraftArguments = b.MinecraftArguments
	}
	if len(merged.Logging) == 0 {
		merged.Logging = b.Logging
	}
	if merged.ComplianceLevel == 0 {
		merged.ComplianceLevel = b.ComplianceLevel
	}

	merged.Libraries = MergeLibraries(b.Libraries, merged.Libraries)
	merged.Arguments = mergeArguments(b.Arguments, merged.Arguments)

	return merged
}

// MergeLibraries returns every base library whose dedup key is not defined by the overlay,
// followed by all overlay libraries. Base libraries without a name are always kept.
func MergeLibraries(base Libraries, overlay Libraries) Libraries {
	shadowed := make(map[string]struct{}, len(overlay))
	for _, lib := range overlay {
		if lib.Name == "" {
			continue
		}
		shadowed[lib.DedupKey()] = struct{}{}
	}

	merged := make(Libraries, 0, len(base)+len(overlay))
	for _, lib := range base {
		if lib.Name != "" {
			if _, ok := shadowed[lib.DedupKey()]; ok {
				continue
			}
		}
		merged = append(merged, lib)
	}
	return append(merged, overlay...)
}

func mergeArguments(base *Arguments, overlay *Arguments) *Arguments {
	if base == nil && overlay == nil {
		return nil
	}
	merged := &Arguments{}
	if base != nil {
		merged.Game = append(merged.Game, base.Game...)
		merged.JVM = append(merged.JVM, base.JVM...)
	}
	if overlay != nil {
		merged.Game = append(merged.Game, overlay.Game...)
		merged.JVM = append(merged.JVM, overlay.JVM...)
	}
	return merged
}
