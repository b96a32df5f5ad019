package main

// The dictionary is a list of words.  Each word contains a header and a data
// field.  In the header is the address of the previous word, an offset into
// string storage indicating where the name of this word is stored, and a
// "code pointer": the opcode of the primitive that runs when the word is
// typed.  Words are packed one after another with no gaps, so the cell after
// a builtin's one-cell body is the next word's link.

// header reads a name from input and compiles a new dictionary entry for it
// with the given code pointer.
func (vm *VM) header(code opcode) {
	h := vm.here()
	vm.compile(vm.last)
	vm.last = h
	vm.compile(vm.names.top)
	vm.compile(int(code))

	token := vm.scan()
	_, err := vm.names.store(token)
	vm.haltif(err)
	vm.logf("define %q @%v", token, h)
}

// lookup returns the address of the most recent word named token, or 0.
func (vm *VM) lookup(token string) int {
	for word := vm.last; word != lastSentinel; word = vm.load(word) {
		if vm.names.name(vm.load(word+1)) == token {
			return word
		}
	}
	return 0
}

// words returns the address of every word, most recent first.
func (vm *VM) words() []int {
	var words []int
	for word := vm.last; word != lastSentinel && word > 0 && uint(word) < vm.mem.Limit; word = vm.load(word) {
		if len(words) > 0 && word >= words[len(words)-1] {
			break // corrupt link
		}
		words = append(words, word)
	}
	return words
}
