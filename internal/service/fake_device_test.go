package service

import (
	"fmt"

	"github.com/hotspotsyncpro/hotspotsyncpro/internal/model"
)

// fakeDevice 内存版设备实现，变更直接落在切片上，
// 目录重建能立即看到效果
type fakeDevice struct {
	bindings  []model.Binding
	leases    []model.Lease
	arp       []model.Lease
	schedules []model.Schedule

	nextID int

	listBindingsErr error
	setFieldsErr    error
	addBindingErr   error
	removeErr       error
	leasesErr       error
	arpErr          error
	schedulesErr    error
	addScheduleErr  error

	removedBindings  []string
	removedSchedules []string
	setFieldCalls    []map[string]string
}

func (d *fakeDevice) ListBindings() ([]model.Binding, error) {
	if d.listBindingsErr != nil {
		return nil, d.listBindingsErr
	}
	out := make([]model.Binding, len(d.bindings))
	copy(out, d.bindings)
	return out, nil
}

func (d *fakeDevice) SetBindingFields(id string, fields map[string]string) error {
	if d.setFieldsErr != nil {
		return d.setFieldsErr
	}
	d.setFieldCalls = append(d.setFieldCalls, fields)
	for i := range d.bindings {
		if d.bindings[i].ID != id {
			continue
		}
		if v, ok := fields["type"]; ok {
			d.bindings[i].Type = v
		}
		if v, ok := fields["mac-address"]; ok {
			d.bindings[i].MacAddress = v
		}
		if v, ok := fields["comment"]; ok {
			d.bindings[i].Comment = v
		}
		return nil
	}
	return fmt.Errorf("no such item %s", id)
}

func (d *fakeDevice) AddBinding(mac, comment string) error {
	if d.addBindingErr != nil {
		return d.addBindingErr
	}
	d.nextID++
	d.bindings = append(d.bindings, model.Binding{
		ID:         fmt.Sprintf("*%X", d.nextID),
		MacAddress: mac,
		Type:       model.BindingTypeBypassed,
		Comment:    comment,
	})
	return nil
}

func (d *fakeDevice) RemoveBinding(id string) error {
	if d.removeErr != nil {
		return d.removeErr
	}
	for i := range d.bindings {
		if d.bindings[i].ID == id {
			d.removedBindings = append(d.removedBindings, id)
			d.bindings = append(d.bindings[:i], d.bindings[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no such item %s", id)
}

func (d *fakeDevice) ListLeases() ([]model.Lease, error) {
	if d.leasesErr != nil {
		return nil, d.leasesErr
	}
	return d.leases, nil
}

func (d *fakeDevice) ListARP() ([]model.Lease, error) {
	if d.arpErr != nil {
		return nil, d.arpErr
	}
	return d.arp, nil
}

func (d *fakeDevice) ListSchedules() ([]model.Schedule, error) {
	if d.schedulesErr != nil {
		return nil, d.schedulesErr
	}
	out := make([]model.Schedule, len(d.schedules))
	copy(out, d.schedules)
	return out, nil
}

func (d *fakeDevice) AddSchedule(s model.Schedule) error {
	if d.addScheduleErr != nil {
		return d.addScheduleErr
	}
	d.nextID++
	s.ID = fmt.Sprintf("*%X", d.nextID)
	d.schedules = append(d.schedules, s)
	return nil
}

func (d *fakeDevice) RemoveSchedule(id string) error {
	for i := range d.schedules {
		if d.schedules[i].ID == id {
			d.removedSchedules = append(d.removedSchedules, id)
			d.schedules = append(d.schedules[:i], d.schedules[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no such item %s", id)
}

// findBindingByMac 按 MAC 找绑定，测试断言用
func (d *fakeDevice) findBindingByMac(mac string) (model.Binding, bool) {
	for _, b := range d.bindings {
		if b.MacAddress == mac {
			return b, true
		}
	}
	return model.Binding{}, false
}
