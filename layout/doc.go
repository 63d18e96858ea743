// Package layout decides where every record field lives in external data.
//
// A NameMapping configures naming, exclusion, unknown-data routing and
// omission rules for a record type. Mappings are served through the recipe,
// so a user mapping overlays the mappings below it. The layout providers
// turn a shape and its mapping into crowns, the trees the compilers walk.
package layout
