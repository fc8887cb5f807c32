package mdqueue

import "sync"

// keyLock 按 request_id 串行化变更
// 不同 request_id 的操作互不阻塞
type keyLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyLock() *keyLock {
	return &keyLock{locks: make(map[string]*sync.Mutex)}
}

// acquire 获取指定 key 的互斥锁（惰性创建）
func (k *keyLock) acquire(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	return lock
}

// release 淘汰指定 key 的互斥锁
// 仅在 key 不再复用时调用（请求移除后 ID 不回收）
func (k *keyLock) release(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.locks, key)
}

// size 当前持有的锁数量
func (k *keyLock) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
