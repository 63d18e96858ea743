// Package schema declares dynamic records in YAML.
//
//	records:
//	  - name: Book
//	    open: true
//	    fields:
//	      - {name: id, type: int}
//	      - {name: title, type: string, optional: true, default: untitled}
//	      - {name: tags, type: "[]string", optional: true}
//	      - {name: author, type: Author}
//	      - name: meta
//	        record:
//	          fields:
//	            - {name: pages, type: int}
//	  - name: Author
//	    fields:
//	      - {name: name, type: string}
//
// Field types are scalar names (bool, int, int8 ... uint64, float32,
// float64, string, time, duration, any), record names, "[]T" and
// "map[string]T". Inline records get a name derived from their parent and
// field, made unique among the declared records.
package schema
