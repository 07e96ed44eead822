package parser

// parentStack tracks the folders that are open while lines are scanned top
// to bottom. The front (last element) is the current folder; 0 is the root
// and is never removed.
type parentStack struct {
	ids []int
}

func newParentStack() *parentStack {
	return &parentStack{ids: []int{0}}
}

func (s *parentStack) peek() int {
	return s.ids[len(s.ids)-1]
}

func (s *parentStack) push(id int) {
	s.ids = append(s.ids, id)
}

// pop closes the current folder. It reports false when there was no folder
// to close, in which case the stack is left at the root.
func (s *parentStack) pop() bool {
	s.ids = s.ids[:len(s.ids)-1]
	if len(s.ids) == 0 {
		s.ids = append(s.ids, 0)
		return false
	}
	return true
}

// depth is the number of open folders
func (s *parentStack) depth() int {
	return len(s.ids) - 1
}
