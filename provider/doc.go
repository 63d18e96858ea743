// Package provider implements request resolution against a recipe.
//
// A recipe is an ordered list of providers. Resolving a request scans the
// recipe and returns the result of the first provider that does not
// decline with *CannotProvide. Providers get a Mediator bound to their own
// recipe position, so they can issue sub-requests (Provide) or continue the
// search past themselves and post-process what the rest of the recipe
// yields (ProvideFromNext).
package provider
