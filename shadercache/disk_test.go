package shadercache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/gogpu/beans/ir"
)

func TestDiskCachePutGet(t *testing.T) {
	d, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := KeyFor([]byte("source"), ir.Limits{})

	if _, ok, err := d.Get(key); ok || err != nil {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}
	code := []byte{3, 2, 35, 7, 0, 0, 1, 0}
	if err := d.Put(key, code); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, ok, err := d.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(got, code) {
		t.Errorf("got %v, want %v", got, code)
	}

	leftovers, _ := filepath.Glob(filepath.Join(d.Dir(), "spv", "tmp-*"))
	if len(leftovers) != 0 {
		t.Errorf("temporary files left behind: %v", leftovers)
	}

	if err := d.DropAll(); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := d.Get(key); ok {
		t.Error("entry survived DropAll")
	}
}

func TestDiskCacheSchemaMismatch(t *testing.T) {
	d, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := KeyFor([]byte("x"), ir.Limits{})
	stale, err := msgpack.Marshal(&diskEntry{Schema: diskSchemaVersion + 1, Code: []byte{1}})
	if err != nil {
		t.Fatal(err)
	}
	p := d.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, stale, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := d.Get(key); ok || err != nil {
		t.Errorf("stale entry: ok=%v err=%v", ok, err)
	}

	if err := os.WriteFile(p, []byte{0xC1}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := d.Get(key); err == nil {
		t.Error("corrupt entry should fail to decode")
	}
}

func TestKeyFor(t *testing.T) {
	a := KeyFor([]byte("a"), ir.Limits{})
	if a != KeyFor([]byte("a"), ir.DefaultLimits()) {
		t.Error("zero limits and default limits should hash alike")
	}
	if a == KeyFor([]byte("b"), ir.Limits{}) {
		t.Error("different sources share a key")
	}
	if a == KeyFor([]byte("a"), ir.Limits{Words: 10}) {
		t.Error("different limits share a key")
	}
	if len(a.String()) != 64 {
		t.Errorf("hex key %q", a.String())
	}
}

func TestCacheUsesDisk(t *testing.T) {
	disk, err := OpenDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := writeShader(t, t.TempDir(), "red.bsl", fragmentRed)

	c := New(newFakeDevice(), WithLogger(quietLogger()), WithDiskCache(disk))
	m, err := c.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	stored, ok, err := disk.Get(KeyFor([]byte(fragmentRed), ir.Limits{}))
	if err != nil || !ok {
		t.Fatalf("binary not stored: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(stored, m.Code) {
		t.Error("stored binary differs from the loaded one")
	}

	// A second cache serves the stored binary.
	planted := append([]byte(nil), m.Code...)
	planted[len(planted)-1] ^= 0xFF
	if err := disk.Put(KeyFor([]byte(fragmentRed), ir.Limits{}), planted); err != nil {
		t.Fatal(err)
	}
	fresh := New(newFakeDevice(), WithLogger(quietLogger()), WithDiskCache(disk))
	again, err := fresh.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(again.Code, planted) {
		t.Error("second cache recompiled instead of reading the disk cache")
	}
}
