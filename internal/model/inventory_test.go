package model

import (
	"testing"
)

func TestDefaultInventoryHasOrderBin(t *testing.T) {
	inv := DefaultInventory()
	if len(inv.Containers) == 0 {
		t.Fatal("default inventory should not be empty")
	}

	cfg := DefaultAppConfig()
	preset := inv.FindContainerByName(cfg.DefaultContainer)
	if preset == nil {
		t.Fatalf("default container %q missing from inventory", cfg.DefaultContainer)
	}
	c := preset.ToContainer()
	if c != (Container{Length: 1200, Width: 1200, Height: 1500}) {
		t.Errorf("unexpected order bin dimensions %s", c)
	}
}

func TestInventoryFindByID(t *testing.T) {
	inv := DefaultInventory()
	target := inv.Containers[2]

	found := inv.FindContainerByID(target.ID)
	if found == nil || found.Name != target.Name {
		t.Fatalf("expected to find %q by id", target.Name)
	}
	if inv.FindContainerByID("missing") != nil {
		t.Error("expected nil for unknown id")
	}
	if inv.FindContainerByName("missing") != nil {
		t.Error("expected nil for unknown name")
	}
}

func TestContainerNames(t *testing.T) {
	inv := Inventory{Containers: []ContainerPreset{
		NewContainerPreset("A", 1, 1, 1),
		NewContainerPreset("B", 2, 2, 2),
	}}
	names := inv.ContainerNames()
	if len(names) != 2 || names[0] != "A" || names[1] != "B" {
		t.Errorf("unexpected names %v", names)
	}
}
