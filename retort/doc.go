// Package retort is the entry point of crownbind. A Retort owns a recipe of
// providers, resolves loaders and dumpers for record types through it and
// caches the compiled routines.
//
//	r := retort.New(
//		retort.WithDebugTrail(morph.DebugTrailFirst),
//		retort.WithRecipe(retort.NameMapping(bookType, layout.NameMapping{
//			NameStyle: layout.Ptr(naming.StyleSnake),
//		})),
//	)
//
//	book, err := retort.Load[Book](r, data)
//
// Providers given by the user are consulted before the built in ones, so
// they can replace or wrap anything the defaults produce.
package retort
