// Package graph provides the directed package-dependency graph.
//
// Nodes are installed packages carrying their measured size in bytes; an
// edge From → To means "From declares a dependency on To". Unlike a layered
// DAG, cycles are allowed: Python packages occasionally depend on each
// other.
//
// # Building from an inventory
//
// [Build] applies the filtering policy used for visualization:
//
//  1. packages without a measured size are dropped entirely
//  2. every remaining package becomes a node, in inventory order
//  3. an edge is added for each declared dependency that is itself a node
//
// Dependencies that point at unmeasured or unknown packages are dropped
// without warning, so every edge always connects two nodes.
//
// # Concurrency
//
// A Graph is not safe for concurrent mutation. Once built it is only read.
package graph
