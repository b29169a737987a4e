package buffers

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/neovim/go-client/nvim"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/specpreview/errors"
	"github.com/grovetools/specpreview/logging"
)

// changedMethod is the rpcnotify method the editor calls on every edit.
const changedMethod = "specpreview_changed"

// client is the subset of the Neovim API the registry needs.
type client interface {
	Buffers() ([]nvim.Buffer, error)
	BufferName(buffer nvim.Buffer) (string, error)
	IsBufferLoaded(buffer nvim.Buffer) (bool, error)
	BufferOption(buffer nvim.Buffer, name string, result interface{}) error
	BufferLines(buffer nvim.Buffer, start, end int, strict bool) ([][]byte, error)
}

// Nvim is a Registry backed by a running Neovim instance reached over
// msgpack-RPC. Buffer edits are reported through autocommands that call back
// into this process.
type Nvim struct {
	v      *nvim.Nvim
	api    client
	group  string
	hub    *hub
	logger *logrus.Entry
}

// AddressFromEnv returns the address of the Neovim instance this process
// runs inside, if any.
func AddressFromEnv() string {
	return os.Getenv("NVIM")
}

// DialNvim connects to the Neovim listening on address (a socket path or
// host:port) and installs the change autocommands.
func DialNvim(address string) (*Nvim, error) {
	v, err := nvim.Dial(address)
	if err != nil {
		return nil, errors.EditorUnavailable(address, err)
	}

	n := &Nvim{
		v:      v,
		api:    v,
		hub:    newHub(),
		logger: logging.NewLogger("buffers"),
	}

	if err := v.RegisterHandler(changedMethod, n.handleChanged); err != nil {
		v.Close()
		return nil, errors.EditorUnavailable(address, err)
	}

	n.group = fmt.Sprintf("specpreview_%d", v.ChannelID())
	for _, cmd := range autocmds(n.group, v.ChannelID()) {
		if err := v.Command(cmd); err != nil {
			v.Close()
			return nil, errors.EditorUnavailable(address, fmt.Errorf("installing autocommands: %w", err))
		}
	}

	n.logger.WithField("address", address).Debug("Connected to Neovim")
	return n, nil
}

func autocmds(group string, channel int) []string {
	notify := fmt.Sprintf("call rpcnotify(%d, '%s', expand('<afile>:p'))", channel, changedMethod)
	return []string{
		"augroup " + group,
		"autocmd!",
		"autocmd TextChanged,TextChangedI,BufModifiedSet,BufWritePost,BufUnload * " + notify,
		"augroup END",
	}
}

func (n *Nvim) handleChanged(path string) {
	if path == "" {
		return
	}
	n.hub.publish(filepath.Clean(path))
}

// Dirty implements specs.BufferRegistry. A buffer counts as open when its
// loaded and its name equals path.
func (n *Nvim) Dirty(path string) (string, bool) {
	bufs, err := n.api.Buffers()
	if err != nil {
		n.logger.WithError(err).Debug("Listing buffers failed")
		return "", false
	}

	for _, b := range bufs {
		name, err := n.api.BufferName(b)
		if err != nil || name == "" || filepath.Clean(name) != path {
			continue
		}
		if loaded, err := n.api.IsBufferLoaded(b); err != nil || !loaded {
			continue
		}

		var modified bool
		if err := n.api.BufferOption(b, "modified", &modified); err != nil || !modified {
			return "", false
		}
		text, err := n.bufferText(b)
		if err != nil {
			n.logger.WithError(err).WithField("path", path).Debug("Reading buffer failed")
			return "", false
		}
		return text, true
	}
	return "", false
}

// bufferText reconstructs the text the buffer would be written as.
func (n *Nvim) bufferText(b nvim.Buffer) (string, error) {
	lines, err := n.api.BufferLines(b, 0, -1, true)
	if err != nil {
		return "", err
	}
	text := bytes.Join(lines, []byte("\n"))

	var eol, fixeol bool
	_ = n.api.BufferOption(b, "endofline", &eol)
	_ = n.api.BufferOption(b, "fixendofline", &fixeol)
	if eol || fixeol {
		text = append(text, '\n')
	}
	return string(text), nil
}

// SubscribeChanges implements Registry.
func (n *Nvim) SubscribeChanges() (<-chan string, func()) {
	return n.hub.subscribe()
}

// Close removes the autocommands and disconnects.
func (n *Nvim) Close() error {
	if n.v == nil {
		return nil
	}
	_ = n.v.Command("autocmd! " + n.group)
	_ = n.v.Command("augroup! " + n.group)
	n.hub.closeAll()
	return n.v.Close()
}
