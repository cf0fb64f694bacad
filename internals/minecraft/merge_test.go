package minecraft_test

import (
	"fmt"
	"testing"

	"github.com/minepkg/mcinstall/internals/minecraft"
)

func ExampleMerge() {
	vanilla := &minecraft.LaunchManifest{
		ID:        "1.20.1",
		MainClass: "net.minecraft.client.main.Main",
		Assets:    "5",
		Libraries: minecraft.Libraries{
			{Name: "org.ow2.asm:asm:9.3"},
			{Name: "com.mojang:brigadier:1.1.8"},
		},
	}
	fabric := &minecraft.LaunchManifest{
		ID:           "fabric-loader-0.16.10-1.20.1",
		InheritsFrom: "1.20.1",
		MainClass:    "net.fabricmc.loader.impl.launch.knot.KnotClient",
		Libraries: minecraft.Libraries{
			{Name: "org.ow2.asm:asm:9.7.1"},
			{Name: "net.fabricmc:fabric-loader:0.16.10"},
		},
	}

	merged := minecraft.Merge(vanilla, fabric, "myserver")

	fmt.Println("ID:", merged.ID)
	fmt.Println("Inherits:", merged.InheritsFrom != "")
	fmt.Println("MainClass:", merged.MainClass)
	fmt.Println("Assets:", merged.Assets)
	fmt.Println("Libraries:")
	for _, lib := range merged.Libraries {
		fmt.Println(" - ", lib.Name)
	}
	// Output:
	// ID: myserver
	// Inherits: false
	// MainClass: net.fabricmc.loader.impl.launch.knot.KnotClient
	// Assets: 5
	// Libraries:
	//  -  com.mojang:brigadier:1.1.8
	//  -  org.ow2.asm:asm:9.7.1
	//  -  net.fabricmc:fabric-loader:0.16.10
}

func TestMerge_noDuplicateKeys(t *testing.T) {
	base := &minecraft.LaunchManifest{
		ID: "1.20.1",
		Libraries: minecraft.Libraries{
			{Name: "net.fabricmc:intermediary:1.20.1"},
			{Name: "org.lwjgl:lwjgl:3.3.1"},
			{Name: "org.lwjgl:lwjgl:3.3.1:natives-linux"},
			{Name: "org.lwjgl:lwjgl:3.3.1:natives-windows"},
			{Downloads: &minecraft.LibraryDownloads{}},
		},
		Arguments: &minecraft.Arguments{
			Game: []minecraft.Argument{minecraft.NewArgument("--username")},
			JVM:  []minecraft.Argument{minecraft.NewArgument("-Xss1M")},
		},
	}
	overlay := &minecraft.LaunchManifest{
		ID: "fabric",
		Libraries: minecraft.Libraries{
			{Name: "net.fabricmc:intermediary:1.20.1"},
			{Name: "net.fabricmc:fabric-loader:0.16.10"},
			{Name: "org.lwjgl:lwjgl:3.2.2"},
		},
		Arguments: &minecraft.Arguments{
			JVM: []minecraft.Argument{minecraft.NewArgument("-DFabricMcEmu= net.minecraft.client.main.Main ")},
		},
	}

	merged := minecraft.Merge(base, overlay, "myserver")

	seen := map[string]string{}
	for _, lib := range merged.Libraries {
		if lib.Name == "" || lib.HasClassifier() {
			continue
		}
		if other, ok := seen[lib.DedupKey()]; ok {
			t.Fatalf("duplicate library key %s (%s and %s)", lib.DedupKey(), other, lib.Name)
		}
		seen[lib.DedupKey()] = lib.Name
	}

	// overlay always wins, even with an older version
	if seen["org.lwjgl:lwjgl"] != "org.lwjgl:lwjgl:3.2.2" {
		t.Errorf("expected overlay lwjgl to win, got %s", seen["org.lwjgl:lwjgl"])
	}

	natives := 0
	unnamed := 0
	for _, lib := range merged.Libraries {
		if lib.HasClassifier() {
			natives++
		}
		if lib.Name == "" {
			unnamed++
		}
	}
	if natives != 2 {
		t.Errorf("expected both classifier variants to survive, got %d", natives)
	}
	if unnamed != 1 {
		t.Errorf("expected the unnamed base library to be kept, got %d", unnamed)
	}

	if len(merged.Arguments.JVM) != 2 || merged.Arguments.JVM[0].Value[0] != "-Xss1M" {
		t.Errorf("expected base jvm args before overlay args, got %#v", merged.Arguments.JVM)
	}
	if len(merged.Arguments.Game) != 1 {
		t.Errorf("expected base game args to be kept, got %#v", merged.Arguments.Game)
	}
	if merged.Type != "release" {
		t.Errorf("expected type release, got %s", merged.Type)
	}
}

func TestMerge_doesNotModifyInputs(t *testing.T) {
	base := &minecraft.LaunchManifest{ID: "1.20.1", Libraries: minecraft.Libraries{{Name: "a:b:1"}}}
	overlay := &minecraft.LaunchManifest{ID: "x", InheritsFrom: "1.20.1", Libraries: minecraft.Libraries{{Name: "a:b:2"}}}

	minecraft.Merge(base, overlay, "name")

	if base.Libraries[0].Name != "a:b:1" || overlay.InheritsFrom != "1.20.1" || overlay.ID != "x" {
		t.Fatal("Merge modified its inputs")
	}
}
