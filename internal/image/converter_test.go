package image

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/stacktopo/internal/util/prerequisites"
)

const partedOutput = `Model:  (file)
Disk /work/appliance.raw: 10737418240B
Sector size (logical/physical): 512B/512B
Partition Table: msdos
Disk Flags:

Number  Start       End          Size         Type     File system     Flags
 1      1048576B    537919487B   536870912B   primary  ext4            boot
 2      537919488B  10737418239B 10199498752B primary  ext4
`

// fakeRunner records every command line and answers from canned outputs.
type fakeRunner struct {
	mu       sync.Mutex
	calls    []string
	outputs  map[string]string
	failures map[string]error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{outputs: map[string]string{}, failures: map[string]error{}}
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	line := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, line)
	for prefix, err := range f.failures {
		if strings.HasPrefix(line, prefix) {
			return nil, err
		}
	}
	for prefix, out := range f.outputs {
		if strings.HasPrefix(line, prefix) {
			return []byte(out), nil
		}
	}
	return nil, nil
}

func newTestConverter(r Runner, opts ...Option) *Converter {
	return NewConverter("", append([]Option{WithRunner(r), WithPreflight(nil)}, opts...)...)
}

func TestToDocker(t *testing.T) {
	t.Parallel()
	runner := newFakeRunner()
	runner.outputs["parted"] = partedOutput

	res, err := newTestConverter(runner).ToDocker(context.Background(), DockerOptions{Appliance: "appliance.ova", Name: "cirros"})

	require.NoError(t, err)
	assert.Equal(t, "cirros:1.0", res.Image)
	assert.Equal(t, "cirros.tar.gz", res.Archive)
	assert.Equal(t, 2, res.Partition.Number)
	assert.Equal(t, []string{
		"tar -xvf appliance.ova",
		"qemu-img convert -f vmdk appliance.vmdk -O raw appliance.raw",
		"parted -s appliance.raw unit b print",
		"mkdir -p mnt",
		"sudo mount -o loop,ro,offset=537919488 appliance.raw mnt",
		"tar -C mnt -czf cirros.tar.gz .",
		"docker import cirros.tar.gz cirros:1.0",
		"sudo umount mnt",
	}, runner.calls)
}

func TestToDocker_WithoutSudo(t *testing.T) {
	t.Parallel()
	runner := newFakeRunner()
	runner.outputs["parted"] = partedOutput

	_, err := newTestConverter(runner, WithSudo(false), WithMountDir("/tmp/root")).
		ToDocker(context.Background(), DockerOptions{Appliance: "appliance", Name: "cirros", Tag: "edge"})

	require.NoError(t, err)
	assert.Contains(t, runner.calls, "mount -o loop,ro,offset=537919488 appliance.raw /tmp/root")
	assert.Contains(t, runner.calls, "docker import cirros.tar.gz cirros:edge")
	assert.Equal(t, "umount /tmp/root", runner.calls[len(runner.calls)-1])
}

func TestToDocker_UnmountsAfterFailure(t *testing.T) {
	t.Parallel()
	runner := newFakeRunner()
	runner.outputs["parted"] = partedOutput
	runner.failures["docker import"] = errors.New("daemon not running")

	_, err := newTestConverter(runner).ToDocker(context.Background(), DockerOptions{Appliance: "appliance.ova", Name: "cirros"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "daemon not running")
	assert.Equal(t, "sudo umount mnt", runner.calls[len(runner.calls)-1])
}

func TestToDocker_NoMountWhenTableIsEmpty(t *testing.T) {
	t.Parallel()
	runner := newFakeRunner()
	runner.outputs["parted"] = "Number  Start  End  Size  Type  File system  Flags\n"

	_, err := newTestConverter(runner).ToDocker(context.Background(), DockerOptions{Appliance: "appliance.ova", Name: "cirros"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no partitions found")
	for _, call := range runner.calls {
		assert.NotContains(t, call, "mount")
	}
}

func TestToDocker_Validation(t *testing.T) {
	t.Parallel()
	c := newTestConverter(newFakeRunner())

	_, err := c.ToDocker(context.Background(), DockerOptions{Name: "cirros"})
	require.EqualError(t, err, "appliance is required")
	_, err = c.ToDocker(context.Background(), DockerOptions{Appliance: "a.ova"})
	require.EqualError(t, err, "image name is required")
}

func TestToDocker_PreflightStopsEarly(t *testing.T) {
	t.Parallel()
	runner := newFakeRunner()
	var checked []string
	c := newTestConverter(runner, WithPreflight(func(tools []prerequisites.Tool) error {
		for _, tool := range tools {
			checked = append(checked, tool.Name)
		}
		return errors.New("missing required tools: qemu-img (qemu-utils package)")
	}))

	_, err := c.ToDocker(context.Background(), DockerOptions{Appliance: "a.ova", Name: "cirros"})

	require.Error(t, err)
	assert.Empty(t, runner.calls)
	assert.Contains(t, checked, "qemu-img")
	assert.Contains(t, checked, "sudo")
}

func TestToVagrant(t *testing.T) {
	t.Parallel()
	runner := newFakeRunner()
	runner.outputs["VBoxManage list vms"] = "\"ubuntu-base\" {0b7d5c31-2a4f-4c1e-9a0c-5d1f3e8a2b11}\n"

	boxFile, err := newTestConverter(runner).ToVagrant(context.Background(), VagrantOptions{VM: "ubuntu-base", Box: "ubuntu"})

	require.NoError(t, err)
	assert.Equal(t, "ubuntu.box", boxFile)
	assert.Equal(t, []string{
		"VBoxManage list vms",
		"vagrant package --base ubuntu-base --output ubuntu.box",
		"vagrant box add ubuntu ubuntu.box",
		"vagrant init ubuntu",
	}, runner.calls)
}

func TestToVagrant_UnknownVM(t *testing.T) {
	t.Parallel()
	runner := newFakeRunner()
	runner.outputs["VBoxManage list vms"] = "\"other\" {11111111-2222-3333-4444-555555555555}\n"

	_, err := newTestConverter(runner).ToVagrant(context.Background(), VagrantOptions{VM: "ubuntu-base", Box: "ubuntu"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
	assert.Len(t, runner.calls, 1)
}

func TestVMRegistered(t *testing.T) {
	t.Parallel()
	out := "\"base vm\" {0b7d5c31-2a4f-4c1e-9a0c-5d1f3e8a2b11}\n\"ubuntu\" {aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee}\n"

	assert.True(t, vmRegistered(out, "ubuntu"))
	assert.True(t, vmRegistered(out, "0b7d5c31-2a4f-4c1e-9a0c-5d1f3e8a2b11"))
	assert.True(t, vmRegistered(out, "{aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee}"))
	assert.False(t, vmRegistered(out, "debian"))
}

func TestParsePartitions(t *testing.T) {
	t.Parallel()

	parts, err := ParsePartitions(partedOutput)
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, Partition{Number: 1, Start: 1048576, End: 537919487, Size: 536870912}, parts[0])

	largest, ok := Largest(parts)
	assert.True(t, ok)
	assert.Equal(t, 2, largest.Number)

	_, ok = Largest(nil)
	assert.False(t, ok)
}

func TestParsePartitions_Errors(t *testing.T) {
	t.Parallel()

	_, err := ParsePartitions("Error: unrecognised disk label\n")
	assert.ErrorContains(t, err, "no partition table")

	_, err = ParsePartitions("Number Start End Size\n 1 2048B xB 10B\n")
	assert.ErrorContains(t, err, "malformed byte value")
}
