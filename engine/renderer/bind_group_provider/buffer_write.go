package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BufferWrite describes a single GPU buffer write operation targeting a specific binding
// on a BindGroupProvider at a given byte offset.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// target returns the buffer w writes to, or nil when there is nothing to write.
func (w BufferWrite) target() *wgpu.Buffer {
	if w.Provider == nil || len(w.Data) == 0 {
		return nil
	}
	return w.Provider.Buffer(w.Binding)
}

// WriteAll queues every write whose provider holds a buffer at the binding. Writes with
// no data or no buffer are skipped.
//
// Parameters:
//   - queue: the device queue
//   - writes: the writes to queue
//
// Returns:
//   - int: the number of writes queued
func WriteAll(queue *wgpu.Queue, writes ...BufferWrite) int {
	n := 0
	for _, w := range writes {
		buf := w.target()
		if buf == nil {
			continue
		}
		queue.WriteBuffer(buf, w.Offset, w.Data)
		n++
	}
	return n
}
