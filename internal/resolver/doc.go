// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package resolver turns an ordered list of module descriptors and a build
// Environment into a BuildPlan.
//
// Resolution runs four sequential passes over the registration-ordered
// descriptor list. The list is never reordered and nothing runs in
// parallel.
//
//  1. Selection: every predicate is evaluated against one snapshot of the
//     Environment, so no decision can depend on another.
//  2. Option merge: selected modules' declarations are merged into a single
//     schema. A repeated name fails the resolution. Defaults are seeded into
//     the Environment, then user overrides are applied.
//  3. Configure: each selected module runs its configure hook inside its own
//     write window, in selection order. Later hooks observe earlier writes.
//     The Environment is frozen afterwards.
//  4. Documentation: doc bindings of selected modules are collected.
//
// Any failure aborts resolution and no partial plan is returned.
package resolver
