//go:build linux

package engine

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/procfs"
)

const pageSize = 4096

// An image is one file-backed object mapped into the tracee.
type image struct {
	id        uint16
	base, end uint64
	path      string
	main      bool
}

// moduleMap tracks the images of one process. Ids are handed out in
// discovery order starting at 1 and never reused.
type moduleMap struct {
	mu     sync.RWMutex
	images []*image // sorted by base
	byPath map[string]*image
	next   uint16
	exe    string
	// pages already rescanned after a lookup miss
	missed map[uint64]bool

	proc *procfs.Proc
}

func newModuleMap(proc *procfs.Proc) *moduleMap {
	m := &moduleMap{
		byPath: make(map[string]*image),
		next:   1,
		missed: make(map[uint64]bool),
		proc:   proc,
	}
	if proc != nil {
		if exe, err := proc.Executable(); err == nil {
			m.exe = exe
		}
	}
	return m
}

// scan rereads the process maps and returns the images not seen before.
func (m *moduleMap) scan() ([]image, error) {
	maps, err := m.proc.ProcMaps()
	if err != nil {
		return nil, fmt.Errorf("read maps of %d: %w", m.proc.PID, err)
	}
	return m.update(maps), nil
}

func fileBacked(pm *procfs.ProcMap) bool {
	if pm.Pathname == "" || strings.HasPrefix(pm.Pathname, "[") {
		return false
	}
	return pm.Dev != 0 && pm.Inode != 0
}

// update merges maps into the image set. Known images grow to cover newly
// mapped segments of the same file.
func (m *moduleMap) update(maps []*procfs.ProcMap) []image {
	m.mu.Lock()
	defer m.mu.Unlock()

	var added []*image
	for _, pm := range maps {
		if !fileBacked(pm) {
			continue
		}
		start, end := uint64(pm.StartAddr), uint64(pm.EndAddr)
		img, ok := m.byPath[pm.Pathname]
		if !ok {
			img = &image{
				id:   m.next,
				base: start,
				end:  end,
				path: pm.Pathname,
				main: pm.Pathname == m.exe,
			}
			m.next++
			m.byPath[img.path] = img
			m.images = append(m.images, img)
			added = append(added, img)
			continue
		}
		if start < img.base {
			img.base = start
		}
		if end > img.end {
			img.end = end
		}
	}
	sort.Slice(m.images, func(i, j int) bool {
		return m.images[i].base < m.images[j].base
	})

	out := make([]image, len(added))
	for i, img := range added {
		out[i] = *img
	}
	return out
}

// ModuleOf returns the id of the image containing addr.
func (m *moduleMap) ModuleOf(addr uint64) (uint16, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.find(addr)
}

func (m *moduleMap) find(addr uint64) (uint16, bool) {
	i := sort.Search(len(m.images), func(i int) bool {
		return m.images[i].end > addr
	})
	if i < len(m.images) && addr >= m.images[i].base {
		return m.images[i].id, true
	}
	return 0, false
}

// lookup is ModuleOf, except that a miss on a page not seen before triggers a
// rescan. Images found by the rescan are returned so the caller can announce
// them.
func (m *moduleMap) lookup(addr uint64) (uint16, bool, []image) {
	if id, ok := m.ModuleOf(addr); ok {
		return id, true, nil
	}

	page := addr &^ (pageSize - 1)
	m.mu.Lock()
	seen := m.missed[page]
	m.missed[page] = true
	m.mu.Unlock()
	if seen || m.proc == nil {
		return 0, false, nil
	}

	added, err := m.scan()
	if err != nil {
		logger.Debug().Err(err).Msg("rescan failed")
		return 0, false, nil
	}
	if len(added) > 0 {
		// new mappings may cover pages that missed before
		m.mu.Lock()
		m.missed = map[uint64]bool{page: true}
		m.mu.Unlock()
	}
	id, ok := m.ModuleOf(addr)
	return id, ok, added
}
