package widget

// clientScript binds the input handler. It reads its configuration and the
// device list from the JSON data island rendered next to it and mirrors
// Search and SearchState.Lines.
const clientScript = `(function () {
  function text(v) {
    return v == null ? '' : String(v);
  }
  function init() {
    var island = document.getElementById('` + DataIslandID + `');
    var input = document.getElementById('` + InputID + `');
    var list = document.getElementById('` + ResultsID + `');
    if (!island || !input || !list) {
      return;
    }
    var cfg = JSON.parse(island.textContent);
    var devices = cfg.devices || [];
    input.addEventListener('input', function () {
      var query = this.value.toLowerCase();
      list.innerHTML = '';
      if (Array.from(query).length < cfg.minQueryLength) {
        return;
      }
      var matches = devices.filter(function (d) {
        return text(d.name).toLowerCase().includes(query) ||
          text(d.brand).toLowerCase().includes(query) ||
          text(d.model).toLowerCase().includes(query);
      });
      matches.slice(0, cfg.maxResults).forEach(function (d) {
        var li = document.createElement('li');
        li.textContent = text(d.name) + ' (' + text(d.brand) + ')';
        list.appendChild(li);
      });
      if (matches.length > cfg.maxResults) {
        var li = document.createElement('li');
        li.textContent = cfg.showingPrefix + ' ' + matches.length + ' ' + cfg.showingSuffix;
        list.appendChild(li);
      }
    });
  }
  if (document.readyState === 'loading') {
    document.addEventListener('DOMContentLoaded', init);
  } else {
    init();
  }
})();`
