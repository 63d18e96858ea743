package common_test

import (
	"fmt"

	"crownbind/internal/common"
)

func ExampleDealer() {
	var d common.Dealer[string]

	d.Needs("Book")
	k, ok := d.NextNeeds()
	fmt.Println("book:", k, ok)

	_, ok = d.NextNeeds()
	fmt.Println("empty:", ok)

	d.Needs("Book")
	_, ok = d.NextNeeds()
	fmt.Println("no duplicates:", ok)

	d.Needs("Shelf", "Tag", "Shelf")

	for k, ok := d.NextNeeds(); ok; k, ok = d.NextNeeds() {
		fmt.Println("next:", k)
	}

	// Output:
	// book: Book true
	// empty: false
	// no duplicates: false
	// next: Shelf
	// next: Tag
}
