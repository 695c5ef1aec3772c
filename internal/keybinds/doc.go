/*
Package keybinds turns key presses into actions.

# Overview

Bindings are collected in a Registry as chord strings ("k", "g g",
"e u") and compiled once at startup into a Tree. The Tree is an arena of
KeyMaps: node 0 is the default map, and every key that starts a chord
points at a child node holding the keys that may follow it. After Compile
returns, the Tree is read-only for the life of the process.

# Resolving keys

A Resolver keeps a cursor (a NodeID) into the Tree and consumes one key
per call:

  - key not bound at the cursor: cursor back to root, Unrecognized
  - key opens a chord: cursor moves to the child, Composing
  - key completes a binding: cursor back to root, Concrete(action)

A completed chord and a single-key binding leave the resolver in the same
state. Only one pending sub-map is ever remembered.

# Configuration File Format

User overrides live in keymap.yaml and are merged over the defaults:

	bindings:
	  "Z Z": quit
	  "g g": go_to_top
	  "x": none      # unbind

# Validation

The validator reports:
  - unknown action names
  - empty or malformed keys
  - prefix conflicts ("g" bound while "g g" also exists)
  - reserved keys rebound (warning)
  - quit unreachable (warning)

# Example Usage

	registry, err := keybinds.LoadOrDefault(config.KeymapFile)
	if err != nil {
		return err
	}
	tree, err := registry.Compile()
	if err != nil {
		return err
	}
	resolver := keybinds.NewResolver(tree)
	res := resolver.Resolve("g")   // Composing
	res = resolver.Resolve("g")    // Concrete(go_to_top)
*/
package keybinds
