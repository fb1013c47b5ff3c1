//go:build linux

package keyboard

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pilebones/go-udev/netlink"

	"keynotes/keymap"
	"keynotes/log"
)

const (
	evKey    = 1
	keyPress = 1
)

// input_event is 24 bytes on 64-bit Linux:
// timeval (16 bytes) + type (2) + code (2) + value (4)
const inputEventSize = 24

type evdevSource struct {
	keys chan keymap.Key
	stop chan struct{}
	once sync.Once

	mu      sync.Mutex
	files   map[string]*os.File
	hotplug *netlink.UEventConn
	closed  bool
}

// New creates a source reading /dev/input directly.
// Requires user to be in the 'input' group.
func New() Source {
	return &evdevSource{
		keys:  make(chan keymap.Key, 64),
		files: make(map[string]*os.File),
	}
}

func (s *evdevSource) Register() error {
	keyboards, err := findKeyboards()
	if err != nil {
		return fmt.Errorf("finding keyboards: %w", err)
	}
	if len(keyboards) == 0 {
		return fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
	}

	s.stop = make(chan struct{})

	for _, path := range keyboards {
		s.open(path)
	}

	s.mu.Lock()
	opened := len(s.files)
	s.mu.Unlock()
	if opened == 0 {
		return fmt.Errorf("could not open any keyboard device (run: sudo usermod -aG input $USER, then re-login)")
	}

	s.watchHotplug()
	return nil
}

// open starts reading path unless it is already being read.
func (s *evdevSource) open(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if _, ok := s.files[path]; ok {
		return
	}
	f, err := os.Open(path)
	if err != nil {
		log.Warnf("open %s: %v", path, err)
		return
	}
	s.files[path] = f
	go s.readEvents(path, f)
}

func (s *evdevSource) readEvents(path string, f *os.File) {
	defer s.forget(path, f)
	buf := make([]byte, inputEventSize*16)

	for {
		n, err := f.Read(buf)
		if err != nil {
			return
		}

		for _, code := range decodePresses(buf[:n]) {
			select {
			case s.keys <- code:
			case <-s.stop:
				return
			}
		}
	}
}

// forget drops a device whose reader ended, so a replug opens it again.
func (s *evdevSource) forget(path string, f *os.File) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.files[path] == f {
		delete(s.files, path)
		f.Close()
	}
}

// decodePresses extracts key press codes from a batch of raw input events.
// Releases (value 0) and autorepeats (value 2) are skipped.
func decodePresses(buf []byte) []keymap.Key {
	var out []keymap.Key
	for i := 0; i+inputEventSize <= len(buf); i += inputEventSize {
		evType := binary.LittleEndian.Uint16(buf[i+16:])
		evCode := binary.LittleEndian.Uint16(buf[i+18:])
		evValue := int32(binary.LittleEndian.Uint32(buf[i+20:]))

		if evType != evKey || evValue != keyPress {
			continue
		}
		out = append(out, keymap.Key(evCode))
	}
	return out
}

// watchHotplug opens keyboards plugged in after Register. Without netlink
// access only the devices present at startup are read.
func (s *evdevSource) watchHotplug() {
	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		log.Warnf("keyboard hotplug disabled: %v", err)
		return
	}
	s.mu.Lock()
	s.hotplug = conn
	s.mu.Unlock()

	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	quit := conn.Monitor(queue, errs, hotplugMatcher())

	go func() {
		for {
			select {
			case <-s.stop:
				close(quit)
				return
			case ev := <-queue:
				path := ev.Env["DEVNAME"]
				if isKeyboard(filepath.Base(path)) {
					log.Info("keyboard attached: " + path)
					s.open(path)
				}
			case err := <-errs:
				log.Warnf("keyboard hotplug: %v", err)
			}
		}
	}()
}

// hotplugMatcher selects udev "add" events for keyboard event nodes.
func hotplugMatcher() netlink.Matcher {
	action := "add"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM":         "input",
			"DEVNAME":           "^/dev/input/event[0-9]+$",
			"ID_INPUT_KEYBOARD": "1",
		},
	})
	return rules
}

func (s *evdevSource) Unregister() {
	s.once.Do(func() {
		if s.stop != nil {
			close(s.stop)
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		s.closed = true
		if s.hotplug != nil {
			s.hotplug.Close()
			s.hotplug = nil
		}
		for path, f := range s.files {
			f.Close()
			delete(s.files, path)
		}
	})
}

func (s *evdevSource) Keys() <-chan keymap.Key {
	return s.keys
}

func findKeyboards() ([]string, error) {
	entries, err := os.ReadDir("/dev/input")
	if err != nil {
		return nil, err
	}

	var keyboards []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "event") {
			continue
		}
		if isKeyboard(e.Name()) {
			keyboards = append(keyboards, filepath.Join("/dev/input", e.Name()))
		}
	}
	return keyboards, nil
}

func isKeyboard(eventName string) bool {
	capsPath := filepath.Join("/sys/class/input", eventName, "device", "capabilities", "key")
	data, err := os.ReadFile(capsPath)
	if err != nil {
		return false
	}
	// Real keyboards have long key capability bitmaps
	caps := strings.TrimSpace(string(data))
	return len(caps) > 10
}

// Diagnose checks evdev access and returns a status message.
func Diagnose() (string, error) {
	keyboards, err := findKeyboards()
	if err != nil {
		return "", fmt.Errorf("cannot scan input devices: %w", err)
	}
	if len(keyboards) == 0 {
		return "", fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
	}

	var opened string
	for _, path := range keyboards {
		f, err := os.Open(path)
		if err == nil {
			f.Close()
			opened = path
			break
		}
	}
	if opened == "" {
		return "", fmt.Errorf("found %d keyboard(s) but cannot open any (run: sudo usermod -aG input $USER)", len(keyboards))
	}

	msg := fmt.Sprintf("%d keyboard(s) found, opened %s", len(keyboards), opened)
	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		msg += fmt.Sprintf("; hotplug unavailable: %v", err)
	} else {
		conn.Close()
		msg += "; hotplug watch available"
	}
	return msg, nil
}
